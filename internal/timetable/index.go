package timetable

import "github.com/noah-isme/sma-timetable-api/internal/models"

// SlotKey is a (day, period) coordinate of the weekly grid.
type SlotKey struct {
	Day    models.DayOfWeek
	Period int
}

// Group is a homeroom or instructor with its entries bucketed by slot. Name and GradeName
// come from the first entry that mentioned the group.
type Group struct {
	ID        string
	Name      string
	GradeName string
	Slots     map[SlotKey][]models.ScheduleEntry
}

// Index lists groups in order of first appearance.
type Index []Group

// IndexByHomeroom buckets every entry under its homeroom.
func IndexByHomeroom(entries []models.ScheduleEntry) Index {
	b := newIndexBuilder()
	for _, entry := range entries {
		b.add(entry.Homeroom.ID, entry.Homeroom.Name, entry.Homeroom.GradeName, entry)
	}
	return b.groups
}

// IndexByInstructor buckets every entry under each distinct instructor of its teachings.
// An entry is never added twice to the same instructor slot.
func IndexByInstructor(entries []models.ScheduleEntry) Index {
	b := newIndexBuilder()
	for _, entry := range entries {
		seen := make(map[string]struct{}, len(entry.Course.Teachings))
		for _, teaching := range entry.Course.Teachings {
			if _, dup := seen[teaching.InstructorID]; dup {
				continue
			}
			seen[teaching.InstructorID] = struct{}{}
			b.add(teaching.InstructorID, teaching.InstructorName, "", entry)
		}
	}
	return b.groups
}

type indexBuilder struct {
	groups   Index
	position map[string]int
}

func newIndexBuilder() *indexBuilder {
	return &indexBuilder{position: make(map[string]int)}
}

func (b *indexBuilder) add(id, name, grade string, entry models.ScheduleEntry) {
	at, ok := b.position[id]
	if !ok {
		at = len(b.groups)
		b.position[id] = at
		b.groups = append(b.groups, Group{
			ID:        id,
			Name:      name,
			GradeName: grade,
			Slots:     make(map[SlotKey][]models.ScheduleEntry),
		})
	}

	key := SlotKey{Day: entry.DayOfWeek, Period: entry.Period}
	bucket := b.groups[at].Slots[key]
	for _, existing := range bucket {
		if existing.ID == entry.ID {
			return
		}
	}
	b.groups[at].Slots[key] = append(bucket, entry)
}
