package apt

import (
	"context"
	"errors"
	"testing"

	"github.com/arc-language/urecipe/pkg/shell"
	"github.com/stretchr/testify/require"
)

func TestQualify(t *testing.T) {
	got := Qualify([]string{"libdwarf-dev", "kio-dev", "zlib1g:amd64"}, ArchI386)
	require.Equal(t, []string{"libdwarf-dev:i386", "kio-dev:i386", "zlib1g:amd64"}, got)
}

func TestFromHostArch(t *testing.T) {
	a, err := FromHostArch("x86")
	require.NoError(t, err)
	require.Equal(t, ArchI386, a)

	a, err = FromHostArch("armv8")
	require.NoError(t, err)
	require.Equal(t, ArchArm64, a)

	_, err = FromHostArch("sparc")
	require.Error(t, err)
}

func TestUpdateAndInstall(t *testing.T) {
	rec := &shell.Recorder{}
	pm := NewPackageManager(&Config{Runner: rec, NoRecommends: true})

	require.NoError(t, pm.Update(context.Background()))
	require.NoError(t, pm.Install(context.Background(), []string{"libdwarf-dev", "kio-dev"}))

	require.Equal(t, []shell.Command{
		{Name: AptGet, Args: []string{"update"}, Env: []string{FrontendEnv}},
		{Name: AptGet, Args: []string{"install", "-y", "--no-install-recommends", "libdwarf-dev", "kio-dev"}, Env: []string{FrontendEnv}},
	}, rec.Commands)
}

func TestInstallWithSudo(t *testing.T) {
	rec := &shell.Recorder{}
	pm := NewPackageManager(&Config{Runner: rec, UseSudo: true})

	require.NoError(t, pm.Install(context.Background(), []string{"kio-dev"}))
	require.Equal(t, []shell.Command{
		{Name: Sudo, Args: []string{"env", FrontendEnv, AptGet, "install", "-y", "kio-dev"}},
	}, rec.Commands)
}

func TestInstallSkipsInstalled(t *testing.T) {
	rec := &shell.Recorder{Queue: []shell.Queued{
		{Result: shell.Result{
			Stdout:   []byte("libdwarf-dev:i386\tinstall ok installed\nkio-dev\tdeinstall ok config-files\n"),
			ExitCode: 1,
		}, Err: errors.New("no packages found matching extra-cmake-modules")},
	}}
	pm := NewPackageManager(&Config{Runner: rec, SkipInstalled: true})

	require.NoError(t, pm.Install(context.Background(), []string{"libdwarf-dev:i386", "kio-dev"}))
	require.Len(t, rec.Commands, 2)
	require.Equal(t, DpkgQuery, rec.Commands[0].Name)
	require.Equal(t, []string{"install", "-y", "kio-dev"}, rec.Commands[1].Args)
}

func TestInstallFailurePropagates(t *testing.T) {
	rec := &shell.Recorder{Err: errors.New("could not open lock file")}
	pm := NewPackageManager(&Config{Runner: rec})

	err := pm.Install(context.Background(), []string{"kio-dev"})
	require.ErrorIs(t, err, shell.ErrCommandFailed)
}

func TestParseStatus(t *testing.T) {
	got := ParseStatus([]byte("a\tinstall ok installed\nb:i386\tinstall ok installed\nc\tunknown ok not-installed\n"))
	require.Equal(t, map[string]bool{"a": true, "b:i386": true, "b": true}, got)
}
