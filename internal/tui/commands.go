package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mwiater/hedlab/internal/workbench"
)

// action identifies which session call an actionMsg reports on.
type action int

const (
	actLoad action = iota
	actRun
	actRefresh
	actViewExperiment
	actRename
	actDownload
	actSaveCopy
	actOpenVocab
	actSaveVocab
	actDownloadVocab
	actOpenCredentials
	actSetCredential
	actRemoveCredential
)

// actionMsg is sent when a session call finishes. The session already holds the
// result; the model re-reads its snapshot.
type actionMsg struct {
	action action
	err    error
}

// alertExpiredMsg fires when the alert with id reaches its ttl.
type alertExpiredMsg struct{ id uint64 }

// autoRefreshMsg drives the optional periodic history refresh.
type autoRefreshMsg time.Time

func sessionCmd(act action, fn func() error) tea.Cmd {
	return func() tea.Msg {
		return actionMsg{action: act, err: fn()}
	}
}

func loadCmd(ctx context.Context, s *workbench.Session) tea.Cmd {
	return sessionCmd(actLoad, func() error { return s.Load(ctx) })
}

func runCmd(ctx context.Context, s *workbench.Session) tea.Cmd {
	return sessionCmd(actRun, func() error {
		_, err := s.Run(ctx)
		return err
	})
}

func refreshCmd(ctx context.Context, s *workbench.Session) tea.Cmd {
	return sessionCmd(actRefresh, func() error { return s.RefreshHistory(ctx) })
}

func viewExperimentCmd(ctx context.Context, s *workbench.Session, filename string) tea.Cmd {
	return sessionCmd(actViewExperiment, func() error {
		_, err := s.ViewExperiment(ctx, filename)
		return err
	})
}

func renameCmd(ctx context.Context, s *workbench.Session, filename, name string) tea.Cmd {
	return sessionCmd(actRename, func() error { return s.RenameExperiment(ctx, filename, name) })
}

func downloadCmd(ctx context.Context, s *workbench.Session, filename, dir string) tea.Cmd {
	return sessionCmd(actDownload, func() error {
		_, err := s.DownloadExperiment(ctx, filename, dir)
		return err
	})
}

func saveCopyCmd(ctx context.Context, s *workbench.Session) tea.Cmd {
	return sessionCmd(actSaveCopy, func() error {
		_, err := s.SaveCurrent(ctx)
		return err
	})
}

func openVocabCmd(ctx context.Context, s *workbench.Session, confirmed bool) tea.Cmd {
	return sessionCmd(actOpenVocab, func() error {
		_, err := s.ReloadVocab(ctx, confirmed)
		return err
	})
}

func saveVocabCmd(ctx context.Context, s *workbench.Session) tea.Cmd {
	return sessionCmd(actSaveVocab, func() error { return s.SaveVocab(ctx) })
}

func downloadVocabCmd(ctx context.Context, s *workbench.Session, dir string) tea.Cmd {
	return sessionCmd(actDownloadVocab, func() error {
		_, err := s.DownloadVocab(ctx, dir)
		return err
	})
}

func openCredentialsCmd(ctx context.Context, s *workbench.Session) tea.Cmd {
	return sessionCmd(actOpenCredentials, func() error { return s.OpenCredentials(ctx) })
}

func setCredentialCmd(ctx context.Context, s *workbench.Session, name, value string) tea.Cmd {
	return sessionCmd(actSetCredential, func() error { return s.SetCredential(ctx, name, value) })
}

func removeCredentialCmd(ctx context.Context, s *workbench.Session, name string) tea.Cmd {
	return sessionCmd(actRemoveCredential, func() error { return s.RemoveCredential(ctx, name) })
}

// alertTimerCmd schedules removal of the current alert.
func alertTimerCmd(s *workbench.Session) tea.Cmd {
	alert, ok := s.Alerts().Current()
	if !ok {
		return nil
	}
	wait := time.Until(alert.Expires)
	if wait < 0 {
		wait = 0
	}
	return tea.Tick(wait, func(time.Time) tea.Msg { return alertExpiredMsg{id: alert.ID} })
}

func autoRefreshCmd(every time.Duration) tea.Cmd {
	if every <= 0 {
		return nil
	}
	return tea.Tick(every, func(t time.Time) tea.Msg { return autoRefreshMsg(t) })
}
