package schedule

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// Source names where a feed entry came from
type Source string

const (
	SourceAppointment Source = "appointment"
	SourceJob         Source = "job"
	SourceAssetJob    Source = "asset_register_job"
	SourceThirdParty  Source = "third_party"
)

// ExternalIDPrefix tags entries that came from the third-party calendar
const ExternalIDPrefix = "tc-"

// Entry is one item of the merged calendar feed
type Entry struct {
	ID             string
	Source         Source
	OrganizationID *uuid.UUID
	Title          string
	Description    string
	Location       string
	StartTime      time.Time
	EndTime        time.Time
	AssignedTo     *uuid.UUID
	AssigneeName   string
	ClientID       *uuid.UUID
	ClientName     string
	JobID          *uuid.UUID
	Status         string
}

// FeedQuery selects entries for the merged calendar feed
type FeedQuery struct {
	UserID          uuid.UUID
	OrganizationID  *uuid.UUID
	From            *time.Time // inclusive
	To              *time.Time // exclusive
	AssignedTo      *uuid.UUID
	IncludeExternal bool
}

// SortEntries orders entries by start time ascending. Equal start times keep
// their incoming order.
func SortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].StartTime.Before(entries[j].StartTime)
	})
}
