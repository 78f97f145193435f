// Package forcesStore owns the political parties, their strength/weakness elements and
// the media attached to them. State lives in memory and every mutation is written back
// to its JSON file atomically before it becomes visible.
package forcesStore

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/akolanti/ragsearch/internal/config"
	"github.com/akolanti/ragsearch/internal/data/fileStore"
	"github.com/akolanti/ragsearch/internal/domain/forcesModel"
	"github.com/akolanti/ragsearch/pkg/logger_i"
	"github.com/google/uuid"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateParty = errors.New("a party with this name already exists")
	ErrInvalidInput   = errors.New("invalid input")
)

var unsafeChars = regexp.MustCompile(`[<>"\\]`)

type Store struct {
	mu sync.RWMutex

	partiesPath  string
	elementsPath string
	mediaPath    string
	uploadsDir   string

	parties  map[string]forcesModel.PoliticalParty
	elements map[string]forcesModel.StrengthWeakness
	media    map[string]forcesModel.MediaFile

	write  func(path string, v any) error
	logger *logger_i.Logger
}

type PartyUpdate struct {
	Nom         *string
	Description *string
	LogoURL     *string
}

type NewElement struct {
	PartyId   string
	Type      string
	Contenu   string
	Date      string
	Categorie *string
	Resume    *string
	Source    *string
	Auteur    *string
}

// New loads the store files under dir. Missing or corrupt files start empty.
func New(dir string) (*Store, error) {
	s := &Store{
		partiesPath:  filepath.Join(dir, config.PartiesFileName),
		elementsPath: filepath.Join(dir, config.ElementsFileName),
		mediaPath:    filepath.Join(dir, config.MediaFileName),
		uploadsDir:   filepath.Join(dir, config.UploadsDirName),
		write:        fileStore.WriteJSON,
		logger:       logger_i.NewLogger("forces_store"),
	}
	if err := os.MkdirAll(s.uploadsDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating uploads dir: %w", err)
	}

	s.parties = load[forcesModel.PoliticalParty](s.partiesPath, s.logger)
	s.elements = load[forcesModel.StrengthWeakness](s.elementsPath, s.logger)
	s.media = load[forcesModel.MediaFile](s.mediaPath, s.logger)
	s.logger.Info("forces store loaded", "parties", len(s.parties), "elements", len(s.elements), "media", len(s.media))
	return s, nil
}

func load[T any](path string, log *logger_i.Logger) map[string]T {
	out := map[string]T{}
	err := fileStore.ReadJSON(path, &out)
	if err == nil && out != nil {
		return out
	}
	if err != nil && !fileStore.IsMissing(err) {
		log.Warn("store file unreadable, starting empty", "path", path, "error", err)
	}
	return map[string]T{}
}

func (s *Store) UploadsDir() string {
	return s.uploadsDir
}

// Sanitize strips characters that are unsafe to echo back into HTML or JSON.
func Sanitize(text string) string {
	return unsafeChars.ReplaceAllString(text, "")
}

func cleanLogoURL(raw *string) *string {
	if raw == nil {
		return nil
	}
	clean := Sanitize(*raw)
	if !strings.HasPrefix(clean, "http://") && !strings.HasPrefix(clean, "https://") {
		return nil
	}
	return &clean
}

func (s *Store) nameTaken(nom string, exceptId string) bool {
	for id, p := range s.parties {
		if id != exceptId && strings.EqualFold(p.Nom, nom) {
			return true
		}
	}
	return false
}

func (s *Store) CreateParty(nom string, description string, logoURL *string) (forcesModel.PoliticalParty, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	nom = strings.TrimSpace(Sanitize(nom))
	if nom == "" {
		return forcesModel.PoliticalParty{}, fmt.Errorf("%w: party name is required", ErrInvalidInput)
	}
	if s.nameTaken(nom, "") {
		return forcesModel.PoliticalParty{}, fmt.Errorf("%w: %s", ErrDuplicateParty, nom)
	}

	party := forcesModel.PoliticalParty{
		Id:          uuid.NewString(),
		Nom:         nom,
		Description: Sanitize(description),
		LogoURL:     cleanLogoURL(logoURL),
	}

	next := maps.Clone(s.parties)
	next[party.Id] = party
	if err := s.write(s.partiesPath, next); err != nil {
		return forcesModel.PoliticalParty{}, err
	}
	s.parties = next
	return party, nil
}

func (s *Store) GetParty(id string) (forcesModel.PoliticalParty, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.parties[id]
	return p, ok
}

// ListParties is ordered by name.
func (s *Store) ListParties() []forcesModel.PoliticalParty {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := slices.Collect(maps.Values(s.parties))
	slices.SortFunc(out, func(a, b forcesModel.PoliticalParty) int {
		if c := strings.Compare(strings.ToLower(a.Nom), strings.ToLower(b.Nom)); c != 0 {
			return c
		}
		return strings.Compare(a.Id, b.Id)
	})
	return out
}

func (s *Store) UpdateParty(id string, upd PartyUpdate) (forcesModel.PoliticalParty, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	party, ok := s.parties[id]
	if !ok {
		return forcesModel.PoliticalParty{}, ErrNotFound
	}
	if upd.Nom != nil {
		nom := strings.TrimSpace(Sanitize(*upd.Nom))
		if nom == "" {
			return forcesModel.PoliticalParty{}, fmt.Errorf("%w: party name is required", ErrInvalidInput)
		}
		if s.nameTaken(nom, id) {
			return forcesModel.PoliticalParty{}, fmt.Errorf("%w: %s", ErrDuplicateParty, nom)
		}
		party.Nom = nom
	}
	if upd.Description != nil {
		party.Description = Sanitize(*upd.Description)
	}
	if upd.LogoURL != nil {
		party.LogoURL = cleanLogoURL(upd.LogoURL)
	}

	next := maps.Clone(s.parties)
	next[id] = party
	if err := s.write(s.partiesPath, next); err != nil {
		return forcesModel.PoliticalParty{}, err
	}
	s.parties = next
	return party, nil
}

// DeleteParty removes the party with its elements and their media, and returns the
// ids of the removed elements.
func (s *Store) DeleteParty(id string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.parties[id]; !ok {
		return nil, ErrNotFound
	}

	parties := maps.Clone(s.parties)
	delete(parties, id)
	elements := maps.Clone(s.elements)
	media := maps.Clone(s.media)

	var removed []string
	var files []string
	for elId, el := range s.elements {
		if el.PartyId != id {
			continue
		}
		removed = append(removed, elId)
		delete(elements, elId)
		for mId, m := range s.media {
			if m.ElementId == elId {
				files = append(files, m.FilePath)
				delete(media, mId)
			}
		}
	}
	slices.Sort(removed)

	if err := s.commit(pending{parties: parties, elements: elements, media: media}); err != nil {
		return nil, err
	}
	s.removeFiles(files)
	return removed, nil
}

func (s *Store) AddElement(in NewElement) (forcesModel.StrengthWeakness, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.parties[in.PartyId]; !ok {
		return forcesModel.StrengthWeakness{}, fmt.Errorf("party %s: %w", in.PartyId, ErrNotFound)
	}
	if _, err := time.Parse(time.DateOnly, in.Date); err != nil {
		return forcesModel.StrengthWeakness{}, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
	}

	item := forcesModel.StrengthWeakness{
		Id:         newElementId(),
		PartyId:    in.PartyId,
		Type:       forcesModel.ParseTypeElement(in.Type),
		Categorie:  in.Categorie,
		Contenu:    in.Contenu,
		Resume:     in.Resume,
		Date:       in.Date,
		Source:     in.Source,
		Auteur:     in.Auteur,
		MediaFiles: []forcesModel.MediaFile{},
	}

	next := maps.Clone(s.elements)
	next[item.Id] = item
	if err := s.write(s.elementsPath, next); err != nil {
		return forcesModel.StrengthWeakness{}, err
	}
	s.elements = next
	return item, nil
}

// newElementId returns a time-ordered UUID so that element ids sort in creation order,
// which the indexing watermark depends on.
func newElementId() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

func (s *Store) GetElement(id string) (forcesModel.StrengthWeakness, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	el, ok := s.elements[id]
	return el, ok
}

// ListElements returns the elements of one party ordered by id.
func (s *Store) ListElements(partyId string) []forcesModel.StrengthWeakness {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []forcesModel.StrengthWeakness{}
	for _, el := range s.elements {
		if el.PartyId == partyId {
			out = append(out, el)
		}
	}
	sortElements(out)
	return out
}

func (s *Store) ListAllElements() []forcesModel.StrengthWeakness {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := slices.Collect(maps.Values(s.elements))
	sortElements(out)
	return out
}

func sortElements(els []forcesModel.StrengthWeakness) {
	slices.SortFunc(els, func(a, b forcesModel.StrengthWeakness) int {
		return strings.Compare(a.Id, b.Id)
	})
}

func (s *Store) DeleteElement(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.elements[id]; !ok {
		return ErrNotFound
	}
	elements := maps.Clone(s.elements)
	delete(elements, id)
	media := maps.Clone(s.media)
	var files []string
	for mId, m := range s.media {
		if m.ElementId == id {
			files = append(files, m.FilePath)
			delete(media, mId)
		}
	}

	if err := s.commit(pending{elements: elements, media: media}); err != nil {
		return err
	}
	s.removeFiles(files)
	return nil
}

func (s *Store) AddMedia(elementId string, filePath string, mediaType string, importance int) (forcesModel.MediaFile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	el, ok := s.elements[elementId]
	if !ok {
		return forcesModel.MediaFile{}, fmt.Errorf("element %s: %w", elementId, ErrNotFound)
	}

	m := forcesModel.MediaFile{
		Id:         uuid.NewString(),
		ElementId:  elementId,
		FilePath:   filePath,
		MediaType:  forcesModel.ParseMediaType(mediaType),
		Importance: max(1, min(5, importance)),
	}

	media := maps.Clone(s.media)
	media[m.Id] = m
	elements := maps.Clone(s.elements)
	el.MediaFiles = append(slices.Clone(el.MediaFiles), m)
	elements[elementId] = el

	if err := s.commit(pending{elements: elements, media: media}); err != nil {
		return forcesModel.MediaFile{}, err
	}
	return m, nil
}

func (s *Store) MediaForElement(elementId string) []forcesModel.MediaFile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []forcesModel.MediaFile{}
	for _, m := range s.media {
		if m.ElementId == elementId {
			out = append(out, m)
		}
	}
	slices.SortFunc(out, func(a, b forcesModel.MediaFile) int { return strings.Compare(a.Id, b.Id) })
	return out
}

// DeleteMedia removes the record and, best-effort, the file on disk.
func (s *Store) DeleteMedia(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.media[id]
	if !ok {
		return ErrNotFound
	}
	media := maps.Clone(s.media)
	delete(media, id)

	var elements map[string]forcesModel.StrengthWeakness
	if el, ok := s.elements[m.ElementId]; ok {
		elements = maps.Clone(s.elements)
		el.MediaFiles = slices.DeleteFunc(slices.Clone(el.MediaFiles), func(x forcesModel.MediaFile) bool { return x.Id == id })
		elements[m.ElementId] = el
	}

	if err := s.commit(pending{elements: elements, media: media}); err != nil {
		return err
	}
	s.removeFiles([]string{m.FilePath})
	return nil
}

type pending struct {
	parties  map[string]forcesModel.PoliticalParty
	elements map[string]forcesModel.StrengthWeakness
	media    map[string]forcesModel.MediaFile
}

type fileWrite struct {
	path     string
	next     any
	previous any
}

// commit writes the non-nil maps and swaps them in only after every write succeeded.
// When a later write fails, the files already written are restored from memory so
// the files on disk stay consistent with each other.
func (s *Store) commit(p pending) error {
	var writes []fileWrite
	if p.media != nil {
		writes = append(writes, fileWrite{s.mediaPath, p.media, s.media})
	}
	if p.elements != nil {
		writes = append(writes, fileWrite{s.elementsPath, p.elements, s.elements})
	}
	if p.parties != nil {
		writes = append(writes, fileWrite{s.partiesPath, p.parties, s.parties})
	}

	for i, w := range writes {
		if err := s.write(w.path, w.next); err != nil {
			s.rollback(writes[:i])
			return err
		}
	}

	if p.parties != nil {
		s.parties = p.parties
	}
	if p.elements != nil {
		s.elements = p.elements
	}
	if p.media != nil {
		s.media = p.media
	}
	return nil
}

func (s *Store) rollback(done []fileWrite) {
	for _, w := range done {
		if err := s.write(w.path, w.previous); err != nil {
			s.logger.Error("could not restore store file after a failed commit", "path", w.path, "error", err)
		}
	}
}

func (s *Store) removeFiles(paths []string) {
	for _, p := range paths {
		if p == "" {
			continue
		}
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("could not remove media file", "path", p, "error", err)
		}
	}
}
