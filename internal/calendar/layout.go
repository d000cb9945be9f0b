package calendar

import (
	"math"
	"time"

	"github.com/julianstephens/studylit/internal/constants"
	"github.com/julianstephens/studylit/internal/models"
	"github.com/julianstephens/studylit/internal/utils"
)

// GridLayout maps event times onto a vertical hour grid
type GridLayout struct {
	HourHeight    float64 // pixels per hour
	GridStartHour int     // hour shown at the top of the grid
}

// Box is the vertical placement of an event in pixels
type Box struct {
	Top    float64
	Height float64
}

// NewGridLayout returns a layout using the default hour height when hourHeight is not positive
func NewGridLayout(hourHeight float64, gridStartHour int) GridLayout {
	if hourHeight <= 0 {
		hourHeight = constants.DefaultHourHeight
	}
	return GridLayout{HourHeight: hourHeight, GridStartHour: gridStartHour}
}

// Position computes top and height from the time of day of start and end.
// Durations under 30 minutes are drawn as 30 minutes. Overlapping events are not
// separated into lanes.
func (g GridLayout) Position(start, end time.Time) Box {
	startMin := float64(utils.MinutesOfDay(start))
	endMin := float64(utils.MinutesOfDay(end))

	top := math.Max(0, (startMin-float64(g.GridStartHour*60))/60*g.HourHeight)
	duration := math.Max(constants.MinEventMinutes, endMin-startMin)
	return Box{Top: top, Height: duration / 60 * g.HourHeight}
}

// PositionFor positions a stored event
func (g GridLayout) PositionFor(ev models.CalendarEvent) Box {
	return g.Position(ev.Start, ev.End)
}
