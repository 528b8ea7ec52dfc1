// Package models defines the domain types for stickpad.
package models

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Type identifies the kind of a note. The set is closed: a note never
// changes type after creation, and loaders map unknown values to TypeText.
type Type string

// All note types.
const (
	TypeText       Type = "text"
	TypeFile       Type = "file"
	TypeImage      Type = "image"
	TypePaint      Type = "paint"
	TypeTodo       Type = "todo"
	TypeReminder   Type = "reminder"
	TypeWeb        Type = "web"
	TypeTable      Type = "table"
	TypeLocation   Type = "location"
	TypeCalculator Type = "calculator"
	TypeTimer      Type = "timer"
	TypeFolder     Type = "folder"
	TypeCode       Type = "code"
)

// AllTypes lists every valid note type.
var AllTypes = []Type{
	TypeText, TypeFile, TypeImage, TypePaint, TypeTodo, TypeReminder,
	TypeWeb, TypeTable, TypeLocation, TypeCalculator, TypeTimer,
	TypeFolder, TypeCode,
}

// ValidType reports whether t is a member of the closed type set.
func ValidType(t Type) bool {
	for _, v := range AllTypes {
		if v == t {
			return true
		}
	}
	return false
}

// Timer presets.
const (
	TimerPomodoro   = "pomodoro"
	TimerShortBreak = "short-break"
	TimerLongBreak  = "long-break"
	TimerCustom     = "custom"
)

// DefaultTimerDuration is the pomodoro default, in seconds.
const DefaultTimerDuration = 25 * 60

// Palette is the fixed note color palette.
var Palette = []string{
	"#ffd700", // yellow
	"#ff69b4", // pink
	"#90ee90", // green
	"#87ceeb", // blue
	"#dda0dd", // purple
	"#ffa500", // orange
	"#ffffff", // white
	"#d3d3d3", // gray
}

// Default colors: folders get a distinct accent, everything else yellow.
const (
	DefaultColor       = "#ffd700"
	DefaultFolderColor = "#FFA726"
)

// ReminderTimeLayout is the wall-clock layout reminders are stored in.
// It carries no zone; values are interpreted in local time.
const ReminderTimeLayout = "2006-01-02T15:04"

// TodoItem is a single checklist entry on a todo note.
type TodoItem struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// Note is the central entity: a single user-created item positioned on the
// overlay canvas. Every note carries the full payload union regardless of
// type so that persisted files round-trip without loss.
type Note struct {
	ID    string   `json:"id"`
	Type  Type     `json:"type"`
	Title string   `json:"title"`
	Tags  []string `json:"tags"`

	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Color  string  `json:"color"`

	Collapsed    bool   `json:"collapsed,omitempty"`
	ParentFolder string `json:"parentFolder,omitempty"`

	Content   string `json:"content"`
	FilePath  string `json:"filePath,omitempty"`
	ImagePath string `json:"imagePath,omitempty"`
	PaintData string `json:"paintData,omitempty"`

	TodoItems []TodoItem `json:"todoItems"`

	ReminderDateTime  string `json:"reminderDateTime,omitempty"`
	ReminderMessage   string `json:"reminderMessage,omitempty"`
	ReminderTriggered bool   `json:"reminderTriggered,omitempty"`

	WebURL         string `json:"webUrl,omitempty"`
	WebTitle       string `json:"webTitle,omitempty"`
	WebDescription string `json:"webDescription,omitempty"`

	TableData [][]string `json:"tableData,omitempty"`

	LocationName    string `json:"locationName,omitempty"`
	LocationAddress string `json:"locationAddress,omitempty"`
	LocationNotes   string `json:"locationNotes,omitempty"`

	CalculatorDisplay string   `json:"calculatorDisplay,omitempty"`
	CalculatorHistory []string `json:"calculatorHistory,omitempty"`

	TimerDuration  int    `json:"timerDuration,omitempty"`
	TimerRemaining int    `json:"timerRemaining,omitempty"`
	TimerRunning   bool   `json:"timerRunning,omitempty"`
	TimerType      string `json:"timerType,omitempty"`

	CodeContent  string `json:"codeContent,omitempty"`
	CodeLanguage string `json:"codeLanguage,omitempty"`

	FolderItems []string `json:"folderItems"`

	// Detached marks a timer whose display currently lives in a separate
	// always-on-top surface. Never persisted across a reload as true.
	Detached bool `json:"detached,omitempty"`

	ArchivedAt *time.Time `json:"archivedAt,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// New creates a note of the given type centered on (x, y), with every field
// set to its type-appropriate default.
func New(t Type, x, y float64) *Note {
	if !ValidType(t) {
		t = TypeText
	}
	n := &Note{
		ID:        uuid.NewString(),
		Type:      t,
		Tags:      []string{},
		X:         x - 125,
		Y:         y - 90,
		Width:     defaultWidth(t),
		Height:    defaultHeight(t),
		Color:     DefaultColor,
		TodoItems: []TodoItem{},
		CreatedAt: time.Now(),
	}
	switch t {
	case TypeFolder:
		n.Color = DefaultFolderColor
		n.FolderItems = []string{}
	case TypeTodo:
		n.TodoItems = []TodoItem{{ID: uuid.NewString()}}
	case TypeTable:
		n.TableData = [][]string{
			{"Header 1", "Header 2", "Header 3"},
			{"Row 1, Col 1", "Row 1, Col 2", "Row 1, Col 3"},
			{"Row 2, Col 1", "Row 2, Col 2", "Row 2, Col 3"},
		}
	case TypeTimer:
		n.TimerType = TimerPomodoro
		n.TimerDuration = DefaultTimerDuration
		n.TimerRemaining = DefaultTimerDuration
	case TypeCalculator:
		n.CalculatorDisplay = "0"
		n.CalculatorHistory = []string{}
	case TypeCode:
		n.CodeLanguage = "javascript"
	}
	return n
}

func defaultWidth(t Type) float64 {
	switch t {
	case TypeFile:
		return 300
	case TypeImage:
		return 320
	case TypePaint:
		return 400
	case TypeTodo:
		return 320
	case TypeReminder:
		return 350
	case TypeWeb:
		return 420
	case TypeTable:
		return 450
	case TypeLocation:
		return 380
	case TypeCalculator:
		return 300
	case TypeTimer:
		return 350
	case TypeFolder:
		return 320
	case TypeCode:
		return 450
	default:
		return 280
	}
}

func defaultHeight(t Type) float64 {
	switch t {
	case TypeFile:
		return 180
	case TypeImage:
		return 250
	case TypePaint:
		return 320
	case TypeTodo:
		return 250
	case TypeReminder:
		return 280
	case TypeWeb:
		return 400
	case TypeTable:
		return 300
	case TypeLocation:
		return 320
	case TypeCalculator:
		return 380
	case TypeTimer:
		return 360
	case TypeFolder:
		return 280
	case TypeCode:
		return 320
	default:
		return 200
	}
}

// Normalize heals a loaded note in place: unknown types fall back to text,
// missing fields gain their type defaults, timer state is clamped to a legal
// range, and transient presentation state is reset. Old files gain new
// fields silently.
func (n *Note) Normalize() {
	if !ValidType(n.Type) {
		n.Type = TypeText
	}
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.Tags == nil {
		n.Tags = []string{}
	}
	if n.TodoItems == nil {
		n.TodoItems = []TodoItem{}
	}
	if n.Type == TypeFolder && n.FolderItems == nil {
		n.FolderItems = []string{}
	}
	if n.Width <= 0 {
		n.Width = defaultWidth(n.Type)
	}
	if n.Height <= 0 {
		n.Height = defaultHeight(n.Type)
	}
	if n.Color == "" {
		if n.Type == TypeFolder {
			n.Color = DefaultFolderColor
		} else {
			n.Color = DefaultColor
		}
	}
	if n.Type == TypeTimer {
		if n.TimerType == "" {
			n.TimerType = TimerPomodoro
		}
		if n.TimerDuration <= 0 {
			n.TimerDuration = DefaultTimerDuration
		}
		if n.TimerRemaining < 0 {
			n.TimerRemaining = 0
		}
		if n.TimerRemaining > n.TimerDuration {
			n.TimerRemaining = n.TimerDuration
		}
		if n.TimerRemaining == 0 {
			n.TimerRunning = false
		}
	}
	if n.Type == TypeCalculator && n.CalculatorDisplay == "" {
		n.CalculatorDisplay = "0"
	}
	// Detached timer windows never survive a reload.
	n.Detached = false
}

// DisplayTitle returns the explicit title when set, otherwise a title
// computed from type-specific content. Empty means the note is untitled.
func (n *Note) DisplayTitle() string {
	if strings.TrimSpace(n.Title) != "" {
		return n.Title
	}
	return n.AutoTitle()
}

// AutoTitle computes a title from type-specific content.
func (n *Note) AutoTitle() string {
	switch n.Type {
	case TypeText:
		return truncate(firstLine(n.Content), 30)
	case TypeWeb:
		if strings.TrimSpace(n.WebTitle) != "" {
			return strings.TrimSpace(n.WebTitle)
		}
		if n.WebURL != "" {
			return hostOf(n.WebURL)
		}
	case TypeLocation:
		if strings.TrimSpace(n.LocationName) != "" {
			return strings.TrimSpace(n.LocationName)
		}
		if strings.TrimSpace(n.LocationAddress) != "" {
			addr := strings.TrimSpace(n.LocationAddress)
			if i := strings.Index(addr, ","); i >= 0 {
				return addr[:i]
			}
			return addr
		}
	case TypeFile:
		if n.FilePath != "" {
			return filepath.Base(n.FilePath)
		}
	case TypeTodo:
		if done, total := n.TodoCounts(); total > 0 {
			return fmt.Sprintf("Todo List (%d/%d)", done, total)
		}
	case TypeReminder:
		if strings.TrimSpace(n.ReminderMessage) != "" {
			return truncate(strings.TrimSpace(n.ReminderMessage), 30)
		}
		if when, err := n.ReminderTime(); err == nil {
			return "Reminder for " + when.Format("1/2/2006")
		}
	case TypeTimer:
		switch n.TimerType {
		case TimerPomodoro:
			return "Pomodoro Timer"
		case TimerShortBreak:
			return "Short Break"
		case TimerLongBreak:
			return "Long Break"
		case TimerCustom:
			return fmt.Sprintf("%d min Timer", n.TimerDuration/60)
		default:
			return "Timer"
		}
	}
	return ""
}

// TodoCounts returns completed and total checklist item counts.
func (n *Note) TodoCounts() (done, total int) {
	for _, item := range n.TodoItems {
		total++
		if item.Completed {
			done++
		}
	}
	return done, total
}

// TodoProgress formats checklist progress as "done/total (pct%)".
func (n *Note) TodoProgress() string {
	done, total := n.TodoCounts()
	pct := 0
	if total > 0 {
		pct = int(float64(done)/float64(total)*100 + 0.5)
	}
	return fmt.Sprintf("%d/%d (%d%%)", done, total, pct)
}

// ReminderTime parses the reminder wall-clock time in the local zone.
func (n *Note) ReminderTime() (time.Time, error) {
	return time.ParseInLocation(ReminderTimeLayout, n.ReminderDateTime, time.Local)
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max]) + "..."
}

func hostOf(raw string) string {
	s := raw
	if i := strings.Index(s, "://"); i >= 0 {
		s = s[i+3:]
	}
	if i := strings.IndexAny(s, "/?#"); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimPrefix(s, "www.")
	if s == "" {
		return truncate(raw, 30)
	}
	return s
}
