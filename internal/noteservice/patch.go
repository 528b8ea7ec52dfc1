package noteservice

import "github.com/marwold/stickpad/internal/models"

// NotePatch is a partial update. Nil fields are left untouched; id, type,
// folder membership, archival state, and timer countdown state have their
// own operations and cannot be patched here.
type NotePatch struct {
	Title     *string  `json:"title"`
	Content   *string  `json:"content"`
	Tags      []string `json:"tags"`
	X         *float64 `json:"x"`
	Y         *float64 `json:"y"`
	Width     *float64 `json:"width"`
	Height    *float64 `json:"height"`
	Color     *string  `json:"color"`
	Collapsed *bool    `json:"collapsed"`

	FilePath  *string `json:"filePath"`
	ImagePath *string `json:"imagePath"`
	PaintData *string `json:"paintData"`

	TodoItems []models.TodoItem `json:"todoItems"`

	ReminderDateTime *string `json:"reminderDateTime"`
	ReminderMessage  *string `json:"reminderMessage"`

	WebURL         *string `json:"webUrl"`
	WebTitle       *string `json:"webTitle"`
	WebDescription *string `json:"webDescription"`

	TableData [][]string `json:"tableData"`

	LocationName    *string `json:"locationName"`
	LocationAddress *string `json:"locationAddress"`
	LocationNotes   *string `json:"locationNotes"`

	CalculatorDisplay *string  `json:"calculatorDisplay"`
	CalculatorHistory []string `json:"calculatorHistory"`

	CodeContent  *string `json:"codeContent"`
	CodeLanguage *string `json:"codeLanguage"`
}

func (p NotePatch) apply(n *models.Note) {
	setStr := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	setStr(&n.Title, p.Title)
	setStr(&n.Content, p.Content)
	if p.Tags != nil {
		n.Tags = p.Tags
	}
	if p.X != nil {
		n.X = *p.X
	}
	if p.Y != nil {
		n.Y = *p.Y
	}
	if p.Width != nil && *p.Width > 0 {
		n.Width = *p.Width
	}
	if p.Height != nil && *p.Height > 0 {
		n.Height = *p.Height
	}
	if p.Color != nil && *p.Color != "" {
		n.Color = *p.Color
	}
	if p.Collapsed != nil {
		n.Collapsed = *p.Collapsed
	}
	setStr(&n.FilePath, p.FilePath)
	setStr(&n.ImagePath, p.ImagePath)
	setStr(&n.PaintData, p.PaintData)
	if p.TodoItems != nil {
		n.TodoItems = p.TodoItems
	}
	if p.ReminderDateTime != nil {
		n.ReminderDateTime = *p.ReminderDateTime
		// Rescheduling re-arms a reminder that already fired.
		n.ReminderTriggered = false
	}
	setStr(&n.ReminderMessage, p.ReminderMessage)
	setStr(&n.WebURL, p.WebURL)
	setStr(&n.WebTitle, p.WebTitle)
	setStr(&n.WebDescription, p.WebDescription)
	if p.TableData != nil {
		n.TableData = p.TableData
	}
	setStr(&n.LocationName, p.LocationName)
	setStr(&n.LocationAddress, p.LocationAddress)
	setStr(&n.LocationNotes, p.LocationNotes)
	setStr(&n.CalculatorDisplay, p.CalculatorDisplay)
	if p.CalculatorHistory != nil {
		n.CalculatorHistory = p.CalculatorHistory
	}
	setStr(&n.CodeContent, p.CodeContent)
	setStr(&n.CodeLanguage, p.CodeLanguage)
}
