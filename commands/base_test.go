package commands

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/spf13/afero"

	"github.com/maximumSHOT-HSE/gobash/core/proc"
	"github.com/maximumSHOT-HSE/gobash/core/proc/proctest"
)

func TestAllCommands(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			if AllCommands[name] == nil {
				t.Fatal("nil command", name)
			}
		})
	}
}

type goldenTestSuite map[string]goldenTest

type goldenTest struct {
	Args  []string
	Stdin string
	Files map[string]string
}

func (gts goldenTestSuite) Run(t *testing.T, cmd proc.ProcessFunc) {
	t.Helper()

	g := goldie.New(
		t,
		goldie.WithFixtureDir(filepath.Join("testdata", "golden")),
		goldie.WithDiffEngine(goldie.ColoredDiff),
		goldie.WithTestNameForDir(true),
	)

	for tn, tc := range gts {
		t.Run(tn, func(t *testing.T) {
			cmd := proctest.Command(cmd, tc.Args[0], tc.Args[1:]...)
			if tc.Stdin != "" {
				cmd.Stdin = strings.NewReader(tc.Stdin)
			}
			for name, content := range tc.Files {
				if err := afero.WriteFile(cmd.FS, name, []byte(content), 0644); err != nil {
					t.Fatal(err)
				}
			}

			out, err := cmd.CombinedOutput()
			if err != nil {
				t.Fatal(err)
			}

			g.Assert(t, tn, out)
		})
	}
}
