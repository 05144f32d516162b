package models

import "encoding/json"

// AttendanceRecord is one roll-call entry for a student. Its shape belongs to
// the attendance screen, so the roster keeps the raw JSON as stored.
type AttendanceRecord = json.RawMessage

// Student represents a student on a classroom roster
type Student struct {
	ID         string             `json:"id"`         // Stable student ID, generated on creation
	Name       string             `json:"name"`       // Student name
	Attendance []AttendanceRecord `json:"attendance"` // Never nil once persisted
}

// Classroom represents a named class and its roster
type Classroom struct {
	ClassName string    `json:"className"` // Lookup key within the store
	Students  []Student `json:"students"`
}

// Clone returns a deep copy so callers can mutate it without touching the original
func (c Classroom) Clone() Classroom {
	out := Classroom{ClassName: c.ClassName, Students: make([]Student, len(c.Students))}
	for i, s := range c.Students {
		out.Students[i] = s.Clone()
	}
	return out
}

// Clone returns a deep copy of the student, raw attendance bytes included
func (s Student) Clone() Student {
	att := make([]AttendanceRecord, len(s.Attendance))
	for i, a := range s.Attendance {
		att[i] = append(AttendanceRecord(nil), a...)
	}
	return Student{ID: s.ID, Name: s.Name, Attendance: att}
}
