package contract

import "github.com/alexanderramin/shopfloor/internal/app"

type ScheduleRequest = app.ScheduleRequest

func NewScheduleRequest() ScheduleRequest {
	return app.NewScheduleRequest()
}

type BlockView = app.BlockView

type MachineTimeline = app.MachineTimeline

type SkippedEntry = app.SkippedEntry

type ScheduleSummary = app.ScheduleSummary

type ScheduleResponse = app.ScheduleResponse

type TimelineBar = app.TimelineBar

type ScheduleErrorCode = app.ScheduleErrorCode

const (
	ScheduleErrNoShifts        ScheduleErrorCode = app.ScheduleErrNoShifts
	ScheduleErrInvalidCalendar ScheduleErrorCode = app.ScheduleErrInvalidCalendar
	ScheduleErrNotFound        ScheduleErrorCode = app.ScheduleErrNotFound
	ScheduleErrInternal        ScheduleErrorCode = app.ScheduleErrInternal
)

type ScheduleError = app.ScheduleError
