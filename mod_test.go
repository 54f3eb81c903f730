package modwiki_test

import (
	"testing"

	"github.com/fwojciec/modwiki"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercases", "Joker Pack", "joker pack"},
		{"collapses whitespace", "  Joker \t\n  Pack  ", "joker pack"},
		{"folds special case mappings", "Straße", "strasse"},
		{"normalizes compatibility forms", "Ｊｏｋｅｒ", "joker"},
		{"keeps non-latin scripts", "Карты Мод", "карты мод"},
		{"empty", "   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, modwiki.NormalizeID(tt.in))
		})
	}
}

func TestNewModRecord(t *testing.T) {
	t.Parallel()

	t.Run("derives id and collapses name", func(t *testing.T) {
		t.Parallel()
		m := modwiki.NewModRecord("  Cryptid   Mod ", "Content Mods")
		assert.Equal(t, "cryptid mod", m.ID)
		assert.Equal(t, "Cryptid Mod", m.Name)
		assert.Equal(t, "Content Mods", m.Category)
	})

	t.Run("defaults missing category", func(t *testing.T) {
		t.Parallel()
		m := modwiki.NewModRecord("Cryptid", "  ")
		assert.Equal(t, modwiki.CategoryUncategorized, m.Category)
	})
}

func TestModRecord_Validate(t *testing.T) {
	t.Parallel()

	t.Run("accepts record without source URL", func(t *testing.T) {
		t.Parallel()
		m := modwiki.NewModRecord("Cryptid", "")
		require.NoError(t, m.Validate())
	})

	t.Run("rejects empty name", func(t *testing.T) {
		t.Parallel()
		m := &modwiki.ModRecord{Category: "x"}
		err := m.Validate()
		require.Error(t, err)
		assert.Equal(t, modwiki.EINVALID, modwiki.ErrorCode(err))
	})

	t.Run("rejects id that does not match name", func(t *testing.T) {
		t.Parallel()
		m := modwiki.NewModRecord("Cryptid", "")
		m.ID = "other"
		assert.Equal(t, modwiki.EINVALID, modwiki.ErrorCode(m.Validate()))
	})

	t.Run("rejects malformed UTF-8", func(t *testing.T) {
		t.Parallel()
		m := modwiki.NewModRecord("Cryptid", "")
		m.Description = "bad \xff byte"
		assert.Equal(t, modwiki.EINVALID, modwiki.ErrorCode(m.Validate()))
	})
}

func TestModRecord_InstallTarget(t *testing.T) {
	t.Parallel()

	m := modwiki.NewModRecord("Cryptid", "")
	_, ok := m.InstallTarget()
	assert.False(t, ok)

	m.SourceURL = "https://github.com/MathIsFun0/Cryptid"
	url, ok := m.InstallTarget()
	assert.True(t, ok)
	assert.Equal(t, "https://github.com/MathIsFun0/Cryptid", url)
}

func TestModRecord_Clone(t *testing.T) {
	t.Parallel()

	m := modwiki.NewModRecord("Cryptid", "")
	m.Tags = []string{"a"}
	c := m.Clone()
	c.Tags[0] = "b"
	assert.Equal(t, "a", m.Tags[0])
}
