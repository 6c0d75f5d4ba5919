package plugin

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/excmd/internal/cmds"
	luart "github.com/dshills/excmd/internal/plugin/lua"
)

type fakeRuntime struct {
	ran  []string
	fail map[string]bool
}

func (r *fakeRuntime) DoFile(path string) error {
	r.ran = append(r.ran, filepath.Base(filepath.Dir(path))+"/"+filepath.Base(path))
	if r.fail[path] {
		return errors.New("boom")
	}
	return nil
}

func writeManifest(t *testing.T, dir, name, extra string) {
	t.Helper()
	writeFile(t, filepath.Join(dir, name, ManifestFile), "name = \""+name+"\"\n"+extra)
	writeFile(t, filepath.Join(dir, name, "init.lua"), ``)
}

func TestManagerLoadsDependenciesFirst(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "a", "dependencies = [\"b\"]\n[commands]\naa = \"echo a\"")
	writeManifest(t, dir, "b", "dependencies = [\"c\"]")
	writeManifest(t, dir, "c", "[commands]\ncc = \"echo c\"")

	rt := &fakeRuntime{}
	reg := cmds.NewRegistry()
	m := NewManager(nil, WithPaths(dir))

	require.NoError(t, m.LoadAll(rt, reg))
	assert.Equal(t, []string{"c/init.lua", "b/init.lua", "a/init.lua"}, rt.ran)

	loaded := m.Loaded()
	require.Len(t, loaded, 3)
	assert.Equal(t, "c", loaded[0].Name)
	assert.Equal(t, "a", loaded[2].Name)
	assert.Empty(t, m.Errors())

	aa, ok := reg.Lookup("aa")
	require.True(t, ok)
	assert.Equal(t, "echo a", aa.Body)
	_, ok = reg.Lookup("cc")
	assert.True(t, ok)
}

func TestManagerMissingDependency(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "a", `dependencies = ["zz"]`)
	writeManifest(t, dir, "b", "")

	rt := &fakeRuntime{}
	m := NewManager(nil, WithPaths(dir))

	err := m.LoadAll(rt, cmds.NewRegistry())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDependencyNotFound)
	assert.Equal(t, []string{"b/init.lua"}, rt.ran)

	errs := m.Errors()
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs["a"], ErrDependencyNotFound)
	assert.Len(t, m.List(), 2)
}

func TestManagerCycle(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "x", `dependencies = ["y"]`)
	writeManifest(t, dir, "y", `dependencies = ["x"]`)
	writeManifest(t, dir, "z", `dependencies = ["x"]`)

	rt := &fakeRuntime{}
	m := NewManager(nil, WithPaths(dir))

	err := m.LoadAll(rt, cmds.NewRegistry())
	require.Error(t, err)
	assert.Empty(t, rt.ran)

	errs := m.Errors()
	assert.ErrorIs(t, errs["x"], ErrCyclicDependency)
	assert.ErrorIs(t, errs["y"], ErrCyclicDependency)
	assert.ErrorIs(t, errs["z"], ErrCyclicDependency)
}

func TestManagerFailedDependencyBlocksDependents(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "a", `dependencies = ["b"]`)
	writeManifest(t, dir, "b", "")

	rt := &fakeRuntime{fail: map[string]bool{filepath.Join(dir, "b", "init.lua"): true}}
	m := NewManager(nil, WithPaths(dir))

	err := m.LoadAll(rt, cmds.NewRegistry())
	require.Error(t, err)
	assert.Equal(t, []string{"b/init.lua"}, rt.ran)

	errs := m.Errors()
	assert.ErrorContains(t, errs["b"], "boom")
	assert.ErrorIs(t, errs["a"], ErrDependencyNotFound)
	assert.Empty(t, m.Loaded())
}

func TestManagerCommandCollision(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "a", "[commands]\ncom = \"echo x\"")

	engine := cmds.New()
	m := NewManager(nil, WithPaths(dir))

	err := m.LoadAll(&fakeRuntime{}, engine.Registry())
	require.Error(t, err)
	assert.ErrorIs(t, err, cmds.ErrIncorrectName)
}

func TestManagerApplyCommands(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "a", "[commands]\naa = \"echo a\"")

	reg := cmds.NewRegistry()
	m := NewManager(nil, WithPaths(dir))
	require.NoError(t, m.LoadAll(&fakeRuntime{}, reg))

	reg.ClearUser()
	_, ok := reg.Lookup("aa")
	require.False(t, ok)

	require.NoError(t, m.ApplyCommands(reg))
	_, ok = reg.Lookup("aa")
	assert.True(t, ok)
}

func TestManagerWithLua(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "wc.lua"), `
ex.register{ name = "count", max = -1, handler = function(ctx)
    print(#ctx.args)
end }
`)
	writeManifest(t, dir, "greet", "[commands]\nhello = \"count a b\"")

	var out bytes.Buffer
	state, err := luart.NewState(luart.WithOutput(&out))
	require.NoError(t, err)
	t.Cleanup(func() { _ = state.Close() })

	engine := cmds.New()
	luart.Bind(state, engine, nil)

	m := NewManager(nil, WithPaths(dir))
	require.NoError(t, m.LoadAll(state, engine.Registry()))

	assert.Equal(t, 0, engine.Execute("count x y z"))
	assert.Equal(t, 0, engine.Execute("hello c"))
	assert.Equal(t, "3\n3\n", out.String())
}
