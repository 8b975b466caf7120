package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/sgaunet/git-mcp/pkg/config"
	"github.com/sgaunet/git-mcp/pkg/platform"
	"github.com/sgaunet/git-mcp/pkg/service"
	"gopkg.in/yaml.v3"
)

const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

func validFormat(f string) bool {
	for _, v := range config.OutputFormats {
		if f == v {
			return true
		}
	}
	return false
}

// print writes v in the selected output format. Table output falls back to
// YAML for types without a table layout.
func (a *app) print(v any) error {
	w := a.deps.Out
	switch a.output {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		return writeYAML(w, v)
	default:
		if ok, err := writeTable(w, v); ok {
			return err
		}
		return writeYAML(w, v)
	}
}

// printResult prints a value with warnings. Table output prints the value and
// logs the warnings; JSON and YAML keep the result envelope.
func printResult[T any](a *app, res *platform.Result[T]) error {
	if a.output == formatTable {
		a.warn(res.Warnings)
		return a.print(&res.Value)
	}
	if res.Warnings == nil {
		res.Warnings = []string{}
	}
	return a.print(res)
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode yaml: %w", err)
	}
	return enc.Close()
}

// writeTable renders the types with a table layout. ok is false for other
// types.
func writeTable(w io.Writer, v any) (bool, error) {
	var header []string
	var rows [][]string

	switch t := v.(type) {
	case []service.PlatformInfo:
		header = []string{"NAME", "TYPE", "URL", "USERNAME", "TOKEN"}
		for _, p := range t {
			rows = append(rows, []string{p.Name, string(p.Type), p.URL, p.Username, yesNo(p.HasToken)})
		}
	case []config.Alias:
		header = []string{"NAME", "PLATFORM", "PROJECT", "DESCRIPTION"}
		for _, al := range t {
			rows = append(rows, []string{al.Name, al.Platform, al.Project, al.Description})
		}
	case []platform.Project:
		header = []string{"ID", "PATH", "VISIBILITY", "DEFAULT BRANCH", "FORK"}
		for _, p := range t {
			rows = append(rows, []string{p.ID, p.FullPath, p.Visibility, p.DefaultBranch, yesNo(p.IsFork)})
		}
	case []platform.Issue:
		header = []string{"ID", "STATE", "TITLE", "AUTHOR", "ASSIGNEES", "LABELS"}
		for _, i := range t {
			rows = append(rows, []string{"#" + i.ID, i.State, i.Title, i.Author,
				strings.Join(i.Assignees, ","), strings.Join(i.Labels, ",")})
		}
	case []platform.MergeRequest:
		header = []string{"ID", "STATE", "TITLE", "SOURCE", "TARGET", "AUTHOR"}
		for _, mr := range t {
			rows = append(rows, []string{"!" + mr.ID, mrState(mr), mr.Title, mr.SourceBranch, mr.TargetBranch, mr.Author})
		}
	case []platform.Branch:
		header = []string{"NAME", "COMMIT", "PROTECTED", "DEFAULT"}
		for _, b := range t {
			rows = append(rows, []string{b.Name, shortSHA(b.CommitSHA), yesNo(b.Protected), yesNo(b.Default)})
		}
	case []platform.Commit:
		header = []string{"SHA", "AUTHOR", "TITLE"}
		for _, c := range t {
			title, _, _ := strings.Cut(c.Message, "\n")
			rows = append(rows, []string{shortSHA(c.SHA), c.Author, title})
		}
	case *platform.Diff:
		header = []string{"STATUS", "PATH", "+", "-"}
		for _, f := range t.Files {
			path := f.Path
			if f.OldPath != "" {
				path = f.OldPath + " -> " + f.Path
			}
			add, del := fmt.Sprint(f.Additions), fmt.Sprint(f.Deletions)
			if f.Binary {
				add, del = "bin", "bin"
			}
			rows = append(rows, []string{f.Status, path, add, del})
		}
		rows = append(rows, []string{"", fmt.Sprintf("%d files changed", t.FilesChanged),
			fmt.Sprint(t.Additions), fmt.Sprint(t.Deletions)})
	case []string:
		for _, s := range t {
			rows = append(rows, []string{s})
		}
	default:
		return false, nil
	}
	return true, renderTable(w, header, rows)
}

// renderTable aligns columns with a tabwriter.
func renderTable(w io.Writer, header []string, rows [][]string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if len(header) > 0 {
		fmt.Fprintln(tw, strings.Join(header, "\t"))
	}
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to write table: %w", err)
	}
	return nil
}

func mrState(mr platform.MergeRequest) string {
	if mr.Draft && mr.State == platform.StateOpen {
		return "draft"
	}
	return mr.State
}

func shortSHA(sha string) string {
	if len(sha) > 8 {
		return sha[:8]
	}
	return sha
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
