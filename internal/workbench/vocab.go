package workbench

import (
	"context"
	"io"
	"strings"
)

// VocabBuffer is the vocabulary document being edited. Baseline is the text last
// loaded from or saved to the backend.
type VocabBuffer struct {
	Loaded   bool
	Baseline string
	Buffer   string
}

// Dirty reports unsaved edits.
func (v VocabBuffer) Dirty() bool {
	return v.Loaded && v.Buffer != v.Baseline
}

// OpenVocab fetches the vocabulary and replaces both the baseline and the buffer.
func (s *Session) OpenVocab(ctx context.Context) (string, error) {
	text, err := s.backend.Vocab(ctx)
	if err != nil {
		return "", s.fail(err, "Error loading vocabulary.")
	}
	s.update(func(st *State) {
		st.Vocab = VocabBuffer{Loaded: true, Baseline: text, Buffer: text}
		st.View = ViewVocab
	})
	return text, nil
}

// EditVocab replaces the edit buffer.
func (s *Session) EditVocab(text string) {
	s.update(func(st *State) {
		st.Vocab.Loaded = true
		st.Vocab.Buffer = text
	})
}

// SaveVocab uploads the edit buffer. Blank documents are rejected.
func (s *Session) SaveVocab(ctx context.Context) error {
	text := s.Snapshot().Vocab.Buffer
	if err := s.pushVocab(ctx, text); err != nil {
		return err
	}
	s.update(func(st *State) { st.Vocab.Baseline = text })
	return nil
}

// PushVocab uploads text as the new vocabulary and makes it the buffer as well.
func (s *Session) PushVocab(ctx context.Context, text string) error {
	if err := s.pushVocab(ctx, text); err != nil {
		return err
	}
	s.update(func(st *State) {
		st.Vocab = VocabBuffer{Loaded: true, Baseline: text, Buffer: text}
	})
	return nil
}

func (s *Session) pushVocab(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return s.fail(&ValidationError{Fields: []string{"vocabulary"}, Message: "Vocabulary cannot be empty."}, "")
	}
	if err := s.backend.SaveVocab(ctx, text); err != nil {
		return s.fail(err, "Error saving vocabulary.")
	}
	s.succeed("Vocabulary saved successfully!")
	return nil
}

// ReloadVocab fetches the vocabulary again. Unsaved edits are only discarded when
// confirmed is set.
func (s *Session) ReloadVocab(ctx context.Context, confirmed bool) (string, error) {
	if !confirmed && s.NeedsLeaveConfirmation() {
		return "", s.fail(ErrConfirmationRequired, "")
	}
	return s.OpenVocab(ctx)
}

// NeedsLeaveConfirmation reports whether leaving now would lose vocabulary edits.
func (s *Session) NeedsLeaveConfirmation() bool {
	return s.Snapshot().Vocab.Dirty()
}

// DownloadVocab saves the vocabulary file into dir and returns its path.
func (s *Session) DownloadVocab(ctx context.Context, dir string) (string, error) {
	path, err := downloadTo(dir, "HED_vocab_reformatted.xml", func(w io.Writer) (string, error) {
		return s.backend.DownloadVocab(ctx, w)
	})
	if err != nil {
		return "", s.fail(err, "Error downloading vocabulary.")
	}
	s.succeed("Downloaded " + path)
	return path, nil
}
