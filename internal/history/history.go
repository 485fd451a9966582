// Package history keeps the newest-first log of past draws.
package history

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/san-kum/lottosim/internal/storage"
)

const DefaultKey = "lottoHistory"

// Entry is one past draw. The JSON layout is shared with older saves, so the
// field names are fixed.
type Entry struct {
	Numbers   []int  `json:"numbers"`
	Date      string `json:"date"`
	Timestamp int64  `json:"timestamp"`
}

func (e Entry) Time() time.Time { return time.UnixMilli(e.Timestamp) }

// Prompter is the user-facing side of clearing the log.
type Prompter interface {
	Notify(msg string)
	Confirm(msg string) bool
}

const (
	EmptyNotice   = "삭제할 히스토리가 없습니다."
	ConfirmPrompt = "모든 히스토리를 삭제하시겠습니까?"
	NoEntries     = "아직 생성된 번호가 없습니다."
)

type Log struct {
	kv  storage.KV
	key string
	loc *time.Location
	log *logrus.Entry
}

func New(kv storage.KV, key string, log *logrus.Logger) *Log {
	if key == "" {
		key = DefaultKey
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Log{
		kv:  kv,
		key: key,
		loc: time.Local,
		log: log.WithField("component", "history"),
	}
}

// WithLocation sets the zone used for the human readable date.
func (l *Log) WithLocation(loc *time.Location) *Log {
	l.loc = loc
	return l
}

// LoadAll returns every entry, newest first. A missing, unreadable or
// malformed value yields an empty log.
func (l *Log) LoadAll() []Entry {
	data, ok, err := l.kv.Get(l.key)
	if err != nil {
		l.log.WithError(err).Warn("read failed, treating history as empty")
		return []Entry{}
	}
	if !ok || len(data) == 0 {
		return []Entry{}
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		l.log.WithError(err).Warn("malformed history, treating as empty")
		return []Entry{}
	}
	if entries == nil {
		entries = []Entry{}
	}
	return entries
}

func (l *Log) Len() int { return len(l.LoadAll()) }

// Append records numbers drawn at the given time at the front of the log.
func (l *Log) Append(numbers []int, at time.Time) (Entry, error) {
	entry := Entry{
		Numbers:   append([]int(nil), numbers...),
		Date:      FormatDate(at.In(l.loc)),
		Timestamp: at.UnixMilli(),
	}

	entries := append([]Entry{entry}, l.LoadAll()...)
	if err := l.save(entries); err != nil {
		return Entry{}, err
	}

	l.log.WithField("numbers", numbers).WithField("entries", len(entries)).Debug("appended")
	return entry, nil
}

// Clear empties the log after asking p for confirmation. An already empty
// log only triggers a notice. It reports whether anything was removed.
func (l *Log) Clear(p Prompter) (bool, error) {
	if l.Len() == 0 {
		p.Notify(EmptyNotice)
		return false, nil
	}
	if !p.Confirm(ConfirmPrompt) {
		return false, nil
	}
	if err := l.save([]Entry{}); err != nil {
		return false, err
	}
	l.log.Info("history cleared")
	return true, nil
}

func (l *Log) save(entries []Entry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	if err := l.kv.Set(l.key, data); err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	return nil
}
