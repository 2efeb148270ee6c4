// Package classes manages the course timetable: classes keyed by their
// registration erp, joined on read with classroom, campus, subject, teacher
// and the two weekly timeslots.
package classes

// ClassroomInfo is the classroom slice of the class projection, with its
// campus nested the way the rows join.
type ClassroomInfo struct {
	ClassroomID int        `json:"classroom_id"`
	Classroom   string     `json:"classroom"`
	Campus      CampusInfo `json:"campus"`
}

// CampusInfo is the campus slice of the class projection.
type CampusInfo struct {
	CampusID int    `json:"campus_id"`
	Campus   string `json:"campus"`
}

// SubjectInfo is the subject slice of the class projection.
type SubjectInfo struct {
	SubjectCode string `json:"subject_code"`
	Subject     string `json:"subject"`
}

// TeacherInfo is the teacher slice of the class projection.
type TeacherInfo struct {
	TeacherID     int    `json:"teacher_id"`
	FullName      string `json:"full_name"`
	AverageRating string `json:"average_rating"`
	TotalReviews  int    `json:"total_reviews"`
}

// TimeslotInfo is one of the two timeslot slices of the class projection.
type TimeslotInfo struct {
	TimeslotID int    `json:"timeslot_id"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	SlotNumber int    `json:"slot_number"`
}

// Class is the joined read projection of one classes row.
type Class struct {
	ClassERP       string        `json:"class_erp"`
	Semester       string        `json:"semester"`
	ParentClassERP *string       `json:"parent_class_erp"`
	Day1           string        `json:"day_1"`
	Day2           string        `json:"day_2"`
	Classroom      ClassroomInfo `json:"classroom"`
	Subject        SubjectInfo   `json:"subject"`
	Teacher        TeacherInfo   `json:"teacher"`
	Timeslot1      TimeslotInfo  `json:"timeslot_1"`
	Timeslot2      TimeslotInfo  `json:"timeslot_2"`
}
