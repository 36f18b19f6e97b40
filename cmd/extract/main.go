package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yourorg/realty-agent-api/internal/config"
	"github.com/yourorg/realty-agent-api/smythos"
)

type extractFlags struct {
	trace        bool
	neighborhood string
	city         string
}

// aliases accepted on the command line, mapped to domain names
var domainAliases = map[string]string{
	"listings":        smythos.DomainListings,
	"details":         smythos.DomainPropertyDetail,
	"property_detail": smythos.DomainPropertyDetail,
	"agents":          smythos.DomainAgentProfiles,
	"agent_profiles":  smythos.DomainAgentProfiles,
	"neighborhood":    smythos.DomainNeighborhood,
	"ads":             smythos.DomainAdvertisements,
	"advertisements":  smythos.DomainAdvertisements,
}

func newRootCmd() *cobra.Command {
	var f extractFlags
	cmd := &cobra.Command{
		Use:   "extract <domain> [file]",
		Short: "Normalize a saved agent response",
		Long: "Runs one extractor over an agent response read from file or stdin and prints the canonical JSON.\n" +
			"Domains: listings, details, agents, neighborhood, ads.",
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			// keep stdout clean for the JSON result
			cfg.Log.Format = "console"
			return config.InitLogger(cfg.Log)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = zap.L().Sync()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			if len(args) == 2 && args[1] != "-" {
				file, err := os.Open(args[1])
				if err != nil {
					return eris.Wrapf(err, "open %s", args[1])
				}
				defer file.Close()
				in = file
			}
			return runExtract(args[0], in, cmd.OutOrStdout(), cmd.ErrOrStderr(), f)
		},
	}
	cmd.Flags().BoolVar(&f.trace, "trace", false, "print the decode trace to stderr")
	cmd.Flags().StringVar(&f.neighborhood, "neighborhood", "", "neighborhood name fallback (neighborhood domain)")
	cmd.Flags().StringVar(&f.city, "city", "", "city fallback (neighborhood domain)")
	return cmd
}

func runExtract(domain string, in io.Reader, out, errOut io.Writer, f extractFlags) error {
	name, ok := domainAliases[strings.ToLower(domain)]
	if !ok {
		return eris.Errorf("unknown domain %q", domain)
	}
	raw, err := io.ReadAll(in)
	if err != nil {
		return eris.Wrap(err, "read input")
	}

	v := smythos.Decode(string(raw))
	var (
		result any
		tr     smythos.Trace
	)
	switch name {
	case smythos.DomainListings:
		result, tr = smythos.Listings(v)
	case smythos.DomainPropertyDetail:
		result, tr = smythos.PropertyDetails(v)
	case smythos.DomainAgentProfiles:
		result, tr = smythos.AgentProfiles(v)
	case smythos.DomainNeighborhood:
		result, tr = smythos.Neighborhood(v, smythos.NeighborhoodQuery{Neighborhood: f.neighborhood, City: f.city})
	case smythos.DomainAdvertisements:
		result, tr = smythos.Advertisements(v)
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return eris.Wrap(err, "encode result")
	}
	if f.trace {
		path := tr.Path
		if path == "" {
			path = "-"
		}
		fmt.Fprintf(errOut, "domain=%s variant=%s path=%s count=%d\n", tr.Domain, tr.Variant, path, tr.Count)
	}
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
