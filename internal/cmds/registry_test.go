package cmds_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/excmd/internal/cmds"
)

func TestValidNames(t *testing.T) {
	tests := []struct {
		name    string
		builtin bool
		user    bool
	}{
		{"", true, false},
		{"!", true, false},
		{"?", false, false},
		{"delete", true, true},
		{"Délète", true, true},
		{"udf!", false, true},
		{"udf?", false, true},
		{"udf!!", false, false},
		{"ud!f", false, false},
		{"u0", false, false},
		{"a#", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.builtin, cmds.ValidBuiltinName(tt.name), "builtin")
			assert.Equal(t, tt.user, cmds.ValidUserName(tt.name), "user")
		})
	}
}

func TestAddBuiltinRejectsBadDescriptors(t *testing.T) {
	tests := []struct {
		name string
		cmd  cmds.Command
	}{
		{"abbr not a prefix", cmds.Command{Name: "write", Abbr: "x"}},
		{"abbr longer than name", cmds.Command{Name: "w", Abbr: "wr"}},
		{"both qmarks", cmds.Command{Name: "write", Flags: cmds.HasQmarkWithArgs | cmds.HasQmarkNoArgs}},
		{"custsep and quoted", cmds.Command{Name: "write", Flags: cmds.HasCustSep | cmds.HasQuotedArgs}},
		{"negative min", cmds.Command{Name: "write", MinArgs: -1}},
		{"max below min", cmds.Command{Name: "write", MinArgs: 2, MaxArgs: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := cmds.NewRegistry()
			err := reg.AddBuiltin(tt.cmd)
			assert.ErrorIs(t, err, cmds.ErrInvalidDescriptor)
			assert.ErrorIs(t, err, cmds.ErrIncorrectName)
			_, ok := reg.Lookup(tt.cmd.Name)
			assert.False(t, ok)
		})
	}
}

func TestAddBuiltinRejectsOverlap(t *testing.T) {
	reg := cmds.NewRegistry()
	require.NoError(t, reg.AddBuiltin(cmds.Command{Name: "delete", Abbr: "d"}))

	assert.ErrorIs(t, reg.AddBuiltin(cmds.Command{Name: "del", Abbr: "de"}), cmds.ErrNameCollision)
	assert.ErrorIs(t, reg.AddBuiltin(cmds.Command{Name: "dele"}), cmds.ErrNameCollision)
	assert.NoError(t, reg.AddBuiltin(cmds.Command{Name: "dump"}))

	// Shares "del" with delete, but "delm" is never a prefix of delete.
	assert.NoError(t, reg.AddBuiltin(cmds.Command{Name: "delmarks", Abbr: "delm"}))
}

func TestAddBuiltinRejectsShadowingUserCommand(t *testing.T) {
	reg := cmds.NewRegistry()
	require.NoError(t, reg.AddUser("foo", "bar"))

	assert.ErrorIs(t, reg.AddBuiltin(cmds.Command{Name: "foobar", Abbr: "foo"}), cmds.ErrNameCollision)
	assert.NoError(t, reg.AddBuiltin(cmds.Command{Name: "foobar", Abbr: "foob"}))
}

func TestAddUserRejectsBuiltinNames(t *testing.T) {
	reg := cmds.NewRegistry()
	reg.MustAddBuiltins([]cmds.Command{{Name: "substitute", Abbr: "s", Flags: cmds.HasCustSep, MaxArgs: 3}})

	for _, name := range []string{"s", "s!", "sub?", "substitute"} {
		assert.ErrorIs(t, reg.AddUser(name, "x"), cmds.ErrNameCollision, name)
	}
	assert.NoError(t, reg.AddUser("sux", "x"), "not a prefix of substitute")
}

func TestMustAddBuiltinsPanics(t *testing.T) {
	reg := cmds.NewRegistry()
	assert.Panics(t, func() {
		reg.MustAddBuiltins([]cmds.Command{{Name: "x"}, {Name: "x"}})
	})
}

func TestRegistryListings(t *testing.T) {
	reg := cmds.NewRegistry()
	reg.MustAddBuiltins([]cmds.Command{
		{Name: ""},
		{Name: "write", Abbr: "w"},
		{Name: "wall", Abbr: "wa"},
	})
	require.NoError(t, reg.AddUser("wipe", "x"))
	require.NoError(t, reg.AddUser("alpha!", "y"))

	var builtins []string
	for _, c := range reg.Builtins() {
		builtins = append(builtins, c.Name)
	}
	assert.Equal(t, []string{"", "wall", "write"}, builtins)

	users := reg.UserCommands()
	require.Len(t, users, 2)
	assert.Equal(t, "alpha!", users[0].Name)
	assert.Equal(t, cmds.User, users[0].Kind)
	assert.Equal(t, cmds.NoLimit, users[0].MaxArgs)

	assert.Equal(t, []string{"wall", "wipe", "write"}, reg.Complete("w"))
	assert.NotContains(t, reg.Complete(""), "")
	assert.NotContains(t, reg.Complete(""), cmds.UserCommandName)

	require.NoError(t, reg.RemoveUser("wipe"))
	assert.ErrorIs(t, reg.RemoveUser("wipe"), cmds.ErrNoSuchCommand)
	reg.ClearUser()
	assert.Empty(t, reg.UserCommands())
}

func TestFlagsString(t *testing.T) {
	assert.Equal(t, "range|emark", (cmds.HasRange | cmds.HasEmark).String())
	assert.Equal(t, "", cmds.Flags(0).String())
	assert.True(t, (cmds.HasCustSep | cmds.HasRegexpArgs).Has(cmds.HasCustSep))
	assert.False(t, cmds.HasCustSep.Has(cmds.HasCustSep|cmds.HasRegexpArgs))
}
