package db

// Physical table names. Models interpolate only these identifiers into SQL
// text; everything that originates from a request is bound as a parameter.
const (
	TableStudents           = "students"
	TableTeachers           = "teachers"
	TableHobbies            = "hobbies"
	TableClasses            = "classes"
	TableClassrooms         = "classrooms"
	TableCampuses           = "campuses"
	TableSubjects           = "subjects"
	TableTimeslots          = "timeslots"
	TableOtpCodes           = "otp_codes"
	TableStudentConnections = "student_connections"
)
