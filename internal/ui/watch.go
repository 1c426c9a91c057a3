package ui

import (
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
)

// fileChangedMsg reports that the watched file was written or replaced.
type fileChangedMsg struct{}

// watchErrMsg reports that the watcher failed and polling should take over.
type watchErrMsg struct{ err error }

// fileWatcher watches the directory holding one file. Atomic saves
// replace the file by rename, so watching the file itself would lose
// track of it after the first save.
type fileWatcher struct {
	w    *fsnotify.Watcher
	file string
}

func newFileWatcher(path string) (*fileWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(filepath.Dir(path)); err != nil {
		_ = w.Close()
		return nil, err
	}
	return &fileWatcher{w: w, file: filepath.Base(path)}, nil
}

// relevant reports whether ev touches the watched file.
func (fw *fileWatcher) relevant(ev fsnotify.Event) bool {
	if !strings.EqualFold(filepath.Base(ev.Name), fw.file) {
		return false
	}
	return ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) != 0
}

// wait blocks until the next relevant event.
func (fw *fileWatcher) wait() tea.Cmd {
	return func() tea.Msg {
		for {
			select {
			case ev, ok := <-fw.w.Events:
				if !ok {
					return watchErrMsg{err: fsnotify.ErrClosed}
				}
				if fw.relevant(ev) {
					return fileChangedMsg{}
				}
			case err, ok := <-fw.w.Errors:
				if !ok {
					return watchErrMsg{err: fsnotify.ErrClosed}
				}
				if err != nil {
					return watchErrMsg{err: err}
				}
			}
		}
	}
}

func (fw *fileWatcher) Close() error {
	if fw == nil {
		return nil
	}
	return fw.w.Close()
}
