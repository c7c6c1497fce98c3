package program_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lnsSolver/internal/program"
	"lnsSolver/internal/term"
)

const sample = `
% two jobs, one machine each
atom a11 assign(1,m1)
atom a12 assign(1,m2)
atom a21 assign(2,m1)   % trailing comment
atom u1 used(m1)
atom s1 _lns_select(1)
count 1 1 a11 a12
count 1 * a21
formula u1 = (a11 | a21)
formula ^(a12 & a21) | u1
minimize 1@2 u1
minimize 4 a11
minimize 2@1 ^a12
show assign/2
`

func TestParse_AllDirectives(t *testing.T) {
	p, err := program.ParseString(sample)
	require.NoError(t, err)

	require.Len(t, p.Atoms, 5)
	assert.Equal(t, "a11", p.Atoms[0].Alias)
	assert.Equal(t, "assign(1,m1)", p.Atoms[0].Symbol.String())

	require.Len(t, p.Counts, 2)
	assert.Equal(t, program.Count{Min: 1, Max: 1, Aliases: []string{"a11", "a12"}, Line: 8}, p.Counts[0])
	assert.Equal(t, -1, p.Counts[1].Max)

	require.Len(t, p.Formulas, 2)
	assert.Equal(t, "u1 = (a11 | a21)", p.Formulas[0].Text)

	require.Len(t, p.Minimize, 3)
	assert.Equal(t, program.Weighted{Weight: 1, Priority: 2, Lit: program.Literal{Alias: "u1"}, Line: 12}, p.Minimize[0])
	assert.Equal(t, 0, p.Minimize[1].Priority)
	assert.True(t, p.Minimize[2].Lit.Negated)
	assert.Equal(t, []int{2, 1, 0}, p.Priorities())
	assert.True(t, p.HasObjective())

	alias, ok := p.AliasOf(term.MustParse("assign(2, m1)"))
	require.True(t, ok)
	assert.Equal(t, "a21", alias)

	assert.True(t, p.IsShown(term.MustParse("assign(1,m2)")))
	assert.False(t, p.IsShown(term.MustParse("used(m1)")))
}

func TestParse_NoShowMeansEverythingShown(t *testing.T) {
	p, err := program.ParseString("atom a x\natom b y(1)\n")
	require.NoError(t, err)
	assert.True(t, p.IsShown(term.MustParse("y(1)")))
	assert.False(t, p.HasObjective())
	assert.Empty(t, p.Priorities())
}

func TestParse_AliasMayBeDeclaredLater(t *testing.T) {
	_, err := program.ParseString("formula a | b\natom a x\natom b y\n")
	require.NoError(t, err)
}

func TestParse_Errors(t *testing.T) {
	cases := map[string]error{
		"atom a x\natom a y":          program.ErrDuplicateAtom,
		"atom a x\natom b x":          program.ErrDuplicateAtom,
		"atom a x\nformula a & b":     program.ErrUnknownAlias,
		"atom a x\ncount 0 1 a c":     program.ErrUnknownAlias,
		"atom a x\nminimize 1@0 ^z":   program.ErrUnknownAlias,
		"atom a x\nminimize -1 a":     program.ErrNegativeWeight,
		"atom a x\ncount 2 1 a":       program.ErrSyntax,
		"atom a x\nformula a &":       program.ErrSyntax,
		"atom 1a x":                   program.ErrSyntax,
		"maximize 1 a":                program.ErrSyntax,
		"show assign":                 program.ErrSyntax,
		"atom a x\nminimize 1@high a": program.ErrSyntax,
	}
	for src, want := range cases {
		_, err := program.ParseString(src)
		assert.ErrorIs(t, err, want, src)
	}

	_, err := program.ParseString("atom a x\natom b f(")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}
