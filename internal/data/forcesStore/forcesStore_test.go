package forcesStore

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/akolanti/ragsearch/internal/config"
	"github.com/akolanti/ragsearch/internal/domain/forcesModel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func newStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	s, err := New(dir)
	require.NoError(t, err)
	return s, dir
}

func TestCreateParty_SanitizesAndRejectsDuplicates(t *testing.T) {
	s, _ := newStore(t)

	p, err := s.CreateParty(`RH<b>DP"`, `desc \ <script>`, strPtr("javascript:alert(1)"))
	require.NoError(t, err)
	assert.Equal(t, "RHbDP", p.Nom)
	assert.Equal(t, "desc  script", p.Description)
	assert.Nil(t, p.LogoURL)

	_, err = s.CreateParty("rhbdp", "", nil)
	assert.ErrorIs(t, err, ErrDuplicateParty)

	q, err := s.CreateParty("PDCI", "", strPtr("https://example.org/logo.png"))
	require.NoError(t, err)
	require.NotNil(t, q.LogoURL)
	assert.Equal(t, "https://example.org/logo.png", *q.LogoURL)

	_, err = s.CreateParty("  ", "", nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestStore_PersistsAcrossReload(t *testing.T) {
	s, dir := newStore(t)

	p, err := s.CreateParty("RHDP", "d", nil)
	require.NoError(t, err)
	el, err := s.AddElement(NewElement{PartyId: p.Id, Type: "force", Contenu: "X", Date: "2024-01-01"})
	require.NoError(t, err)
	_, err = s.AddMedia(el.Id, filepath.Join(dir, "uploads", "a.png"), "image", 3)
	require.NoError(t, err)

	reloaded, err := New(dir)
	require.NoError(t, err)

	got, ok := reloaded.GetParty(p.Id)
	require.True(t, ok)
	assert.Equal(t, "RHDP", got.Nom)

	els := reloaded.ListElements(p.Id)
	require.Len(t, els, 1)
	assert.Equal(t, forcesModel.TypeForce, els[0].Type)
	assert.Len(t, els[0].MediaFiles, 1)
	assert.Len(t, reloaded.MediaForElement(el.Id), 1)
}

func TestNew_CorruptFileStartsEmpty(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.PartiesFileName), []byte("{broken"), 0o644))

	s, err := New(dir)
	require.NoError(t, err)
	assert.Empty(t, s.ListParties())
}

func TestAddElement(t *testing.T) {
	s, _ := newStore(t)
	p, _ := s.CreateParty("A", "", nil)

	el, err := s.AddElement(NewElement{PartyId: p.Id, Type: "bogus", Contenu: "c", Date: "2024-02-02", Categorie: strPtr("eco")})
	require.NoError(t, err)
	assert.Equal(t, forcesModel.TypeAutre, el.Type)
	assert.NotNil(t, el.MediaFiles)

	_, err = s.AddElement(NewElement{PartyId: "missing", Type: "force", Date: "2024-01-01"})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.AddElement(NewElement{PartyId: p.Id, Type: "force", Date: "01/02/2024"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	assert.Len(t, s.ListAllElements(), 1)
}

func TestAddMedia_ClampsAndDefaults(t *testing.T) {
	s, _ := newStore(t)
	p, _ := s.CreateParty("A", "", nil)
	el, _ := s.AddElement(NewElement{PartyId: p.Id, Type: "force", Date: "2024-01-01"})

	hi, err := s.AddMedia(el.Id, "", "hologram", 9)
	require.NoError(t, err)
	assert.Equal(t, 5, hi.Importance)
	assert.Equal(t, forcesModel.MediaAutre, hi.MediaType)

	lo, err := s.AddMedia(el.Id, "", "video", -2)
	require.NoError(t, err)
	assert.Equal(t, 1, lo.Importance)

	_, err = s.AddMedia("missing", "", "video", 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteMedia_RemovesFileAndReference(t *testing.T) {
	s, dir := newStore(t)
	p, _ := s.CreateParty("A", "", nil)
	el, _ := s.AddElement(NewElement{PartyId: p.Id, Type: "force", Date: "2024-01-01"})

	path := filepath.Join(dir, "uploads", "clip.mp4")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	m, err := s.AddMedia(el.Id, path, "video", 2)
	require.NoError(t, err)

	require.NoError(t, s.DeleteMedia(m.Id))
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))

	got, _ := s.GetElement(el.Id)
	assert.Empty(t, got.MediaFiles)
	assert.ErrorIs(t, s.DeleteMedia(m.Id), ErrNotFound)
}

func TestDeleteParty_Cascades(t *testing.T) {
	s, dir := newStore(t)
	p, _ := s.CreateParty("A", "", nil)
	other, _ := s.CreateParty("B", "", nil)
	e1, _ := s.AddElement(NewElement{PartyId: p.Id, Type: "force", Date: "2024-01-01"})
	e2, _ := s.AddElement(NewElement{PartyId: p.Id, Type: "faiblesse", Date: "2024-01-02"})
	keep, _ := s.AddElement(NewElement{PartyId: other.Id, Type: "force", Date: "2024-01-03"})
	_, _ = s.AddMedia(e1.Id, "", "image", 1)

	removed, err := s.DeleteParty(p.Id)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{e1.Id, e2.Id}, removed)

	_, ok := s.GetParty(p.Id)
	assert.False(t, ok)
	assert.Empty(t, s.ListElements(p.Id))
	assert.Empty(t, s.MediaForElement(e1.Id))
	_, ok = s.GetElement(keep.Id)
	assert.True(t, ok)

	raw, err := os.ReadFile(filepath.Join(dir, config.ElementsFileName))
	require.NoError(t, err)
	var onDisk map[string]forcesModel.StrengthWeakness
	require.NoError(t, json.Unmarshal(raw, &onDisk))
	assert.Len(t, onDisk, 1)

	_, err = s.DeleteParty(p.Id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateParty(t *testing.T) {
	s, _ := newStore(t)
	a, _ := s.CreateParty("A", "old", nil)
	_, _ = s.CreateParty("B", "", nil)

	got, err := s.UpdateParty(a.Id, PartyUpdate{Description: strPtr("new"), LogoURL: strPtr("http://x/y.png")})
	require.NoError(t, err)
	assert.Equal(t, "A", got.Nom)
	assert.Equal(t, "new", got.Description)
	require.NotNil(t, got.LogoURL)

	_, err = s.UpdateParty(a.Id, PartyUpdate{Nom: strPtr("b")})
	assert.ErrorIs(t, err, ErrDuplicateParty)

	_, err = s.UpdateParty("missing", PartyUpdate{})
	assert.ErrorIs(t, err, ErrNotFound)

	names := []string{}
	for _, p := range s.ListParties() {
		names = append(names, p.Nom)
	}
	assert.Equal(t, []string{"A", "B"}, names)
}

func TestDeleteElement(t *testing.T) {
	s, _ := newStore(t)
	p, _ := s.CreateParty("A", "", nil)
	el, _ := s.AddElement(NewElement{PartyId: p.Id, Type: "force", Date: "2024-01-01"})
	_, _ = s.AddMedia(el.Id, "", "image", 1)

	require.NoError(t, s.DeleteElement(el.Id))
	assert.Empty(t, s.ListAllElements())
	assert.Empty(t, s.MediaForElement(el.Id))
	assert.ErrorIs(t, s.DeleteElement(el.Id), ErrNotFound)
}

func TestAddElement_IdsSortInCreationOrder(t *testing.T) {
	s, _ := newStore(t)
	p, _ := s.CreateParty("A", "", nil)

	var prev string
	for i := 0; i < 20; i++ {
		el, err := s.AddElement(NewElement{PartyId: p.Id, Type: "force", Date: "2024-01-01"})
		require.NoError(t, err)
		assert.Greater(t, el.Id, prev)
		prev = el.Id
	}
}

func TestCommit_RestoresWrittenFilesOnFailure(t *testing.T) {
	s, dir := newStore(t)
	p, _ := s.CreateParty("A", "", nil)
	el, _ := s.AddElement(NewElement{PartyId: p.Id, Type: "force", Date: "2024-01-01"})
	_, err := s.AddMedia(el.Id, "", "video", 3)
	require.NoError(t, err)

	mediaPath := filepath.Join(dir, config.MediaFileName)
	before, err := os.ReadFile(mediaPath)
	require.NoError(t, err)

	writeJSON := s.write
	diskErr := errors.New("disk full")
	s.write = func(path string, v any) error {
		if path == s.elementsPath {
			return diskErr
		}
		return writeJSON(path, v)
	}

	_, err = s.AddMedia(el.Id, "", "image", 2)
	assert.ErrorIs(t, err, diskErr)

	after, err := os.ReadFile(mediaPath)
	require.NoError(t, err)
	var onDisk map[string]forcesModel.MediaFile
	require.NoError(t, json.Unmarshal(after, &onDisk))
	var original map[string]forcesModel.MediaFile
	require.NoError(t, json.Unmarshal(before, &original))
	assert.Equal(t, original, onDisk)
	assert.Len(t, s.MediaForElement(el.Id), 1)

	reloaded, err := New(dir)
	require.NoError(t, err)
	assert.Len(t, reloaded.MediaForElement(el.Id), 1)
	got, ok := reloaded.GetElement(el.Id)
	require.True(t, ok)
	assert.Len(t, got.MediaFiles, 1)
}
