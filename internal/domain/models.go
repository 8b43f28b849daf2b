package domain

import "time"

// ArchetypeRecord is a participant's stored archetype result.
type ArchetypeRecord struct {
	UserID      string          `json:"userId"`
	Result      ArchetypeResult `json:"result"`
	SubmittedAt time.Time       `json:"submittedAt"`
}

// EventHost identifies the club or sponsor running an event.
type EventHost string

// EventHosts lists every accepted host tag.
var EventHosts = []EventHost{
	"deerhacks", "mcss", "utmRobotics", "esports", "gdsc", "cssc",
	"utmsam", "mlh", "guidewire", "inworldAi", "uber", "amd", "thirstea",
}

// EventType classifies an event for display.
type EventType string

const (
	EventActivity    EventType = "activity"
	EventWorkshop    EventType = "workshop"
	EventCompetition EventType = "competition"
	EventLogistics   EventType = "logistics"
	EventFood        EventType = "food"
	EventOther       EventType = "other"
)

// EventTypes lists every accepted event type.
var EventTypes = []EventType{EventActivity, EventWorkshop, EventCompetition, EventLogistics, EventFood, EventOther}

// Event is a single schedule entry. EndTime is nil for open-ended events
// such as "Hacking Begins". Events with a positive PointsValue can be
// redeemed by scanning a QR code while QRActive is set.
type Event struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Location    string     `json:"location,omitempty"`
	StartTime   time.Time  `json:"startTime"`
	EndTime     *time.Time `json:"endTime,omitempty"`
	Important   bool       `json:"important"`
	Host        EventHost  `json:"host"`
	Type        EventType  `json:"type"`
	Presenter   string     `json:"presenter,omitempty"`
	PointsValue int        `json:"pointsValue,omitempty"`
	QRActive    bool       `json:"qrActive"`
}

// EventSegment is the portion of an event that falls on one day.
type EventSegment struct {
	Event       Event      `json:"event"`
	Start       time.Time  `json:"start"`
	End         *time.Time `json:"end,omitempty"`
	ActualStart time.Time  `json:"actualStart"`
	ActualEnd   *time.Time `json:"actualEnd,omitempty"`
}

// Placement positions a segment on a day grid. EndHour is exclusive.
type Placement struct {
	Segment   EventSegment `json:"segment"`
	Column    int          `json:"column"`
	StartHour int          `json:"startHour"`
	EndHour   int          `json:"endHour"`
}

// DayGrid is the packed layout for a single day.
type DayGrid struct {
	Date       string                `json:"date"`
	Placements []Placement           `json:"placements"`
	Occupancy  map[int]map[int]int64 `json:"occupancy"`
	Columns    int                   `json:"columns"`
	FirstHour  int                   `json:"firstHour"`
	LastHour   int                   `json:"lastHour"`
}

// ColumnsAt returns how many columns are occupied in an hour bucket.
func (g DayGrid) ColumnsAt(hour int) int {
	return len(g.Occupancy[hour])
}

// Schedule holds every day's grid, sorted chronologically. A hidden
// schedule carries no days.
type Schedule struct {
	Visible   bool      `json:"visible"`
	Days      []DayGrid `json:"days"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Settings keys.
const SettingScheduleVisible = "schedule_visible"
