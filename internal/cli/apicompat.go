package cli

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"brewhub/docs"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var supportedMethods = map[string]struct{}{
	"get":     {},
	"put":     {},
	"post":    {},
	"delete":  {},
	"patch":   {},
	"head":    {},
	"options": {},
}

// apiSurface maps path -> method -> response codes.
type apiSurface map[string]map[string]map[string]struct{}

// NewAPICompatCommand creates the api-compat command.
func NewAPICompatCommand(_ *RootOptions) *cobra.Command {
	var basePath, revisionPath string
	var dump bool

	cmd := &cobra.Command{
		Use:   "api-compat",
		Short: "Check that the API keeps every path, operation and response of a baseline",
		Long: `Compares a baseline swagger document against a revision. Without --revision the
document embedded in this build is used. Use --dump to print that document as a new baseline.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			if dump {
				_, err := fmt.Fprintln(out, docs.SwaggerInfo.ReadDoc())
				return err
			}
			if strings.TrimSpace(basePath) == "" {
				return errors.New("--base is required")
			}

			base, err := loadSurfaceFile(basePath)
			if err != nil {
				return fmt.Errorf("load base: %w", err)
			}
			var revision apiSurface
			if revisionPath == "" {
				revision, err = parseSurface([]byte(docs.SwaggerInfo.ReadDoc()))
			} else {
				revision, err = loadSurfaceFile(revisionPath)
			}
			if err != nil {
				return fmt.Errorf("load revision: %w", err)
			}

			issues := compareSurfaces(base, revision)
			if len(issues) > 0 {
				for _, issue := range issues {
					fmt.Fprintf(cmd.ErrOrStderr(), "- %s\n", issue)
				}
				return fmt.Errorf("backward compatibility check failed: %d issue(s)", len(issues))
			}
			fmt.Fprintln(out, "api compatibility check passed")
			return nil
		},
	}

	cmd.Flags().StringVar(&basePath, "base", "", "baseline swagger document (json or yaml)")
	cmd.Flags().StringVar(&revisionPath, "revision", "", "revision swagger document; defaults to the embedded one")
	cmd.Flags().BoolVar(&dump, "dump", false, "print the embedded swagger document and exit")

	return cmd
}

func loadSurfaceFile(path string) (apiSurface, error) {
	// #nosec G304: path comes from CLI flags in a dev tool
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseSurface(raw)
}

// parseSurface reads the paths section of a swagger document. JSON is valid YAML.
func parseSurface(raw []byte) (apiSurface, error) {
	var doc struct {
		Paths map[string]map[string]struct {
			Responses map[string]interface{} `yaml:"responses"`
		} `yaml:"paths"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	if doc.Paths == nil {
		return nil, errors.New("missing top-level paths field")
	}

	surface := make(apiSurface, len(doc.Paths))
	for path, methods := range doc.Paths {
		ops := make(map[string]map[string]struct{})
		for method, op := range methods {
			m := strings.ToLower(strings.TrimSpace(method))
			if _, ok := supportedMethods[m]; !ok {
				continue
			}
			codes := make(map[string]struct{}, len(op.Responses))
			for code := range op.Responses {
				if c := strings.ToLower(strings.TrimSpace(code)); c != "" {
					codes[c] = struct{}{}
				}
			}
			ops[m] = codes
		}
		if len(ops) > 0 {
			surface[path] = ops
		}
	}
	return surface, nil
}

func compareSurfaces(base, revision apiSurface) []string {
	var issues []string

	for path, baseOps := range base {
		revOps, ok := revision[path]
		if !ok {
			issues = append(issues, fmt.Sprintf("removed path: %s", path))
			continue
		}
		for method, baseCodes := range baseOps {
			revCodes, ok := revOps[method]
			if !ok {
				issues = append(issues, fmt.Sprintf("removed operation: %s %s", strings.ToUpper(method), path))
				continue
			}
			for code := range baseCodes {
				if _, ok := revCodes[code]; !ok {
					issues = append(issues, fmt.Sprintf("removed response code: %s %s -> %s",
						strings.ToUpper(method), path, strings.ToUpper(code)))
				}
			}
		}
	}

	sort.Strings(issues)
	return issues
}
