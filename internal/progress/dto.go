// AngelaMos | 2026
// dto.go

package progress

type CompleteResponse struct {
	Module       int     `json:"module"`
	NextModule   int     `json:"next_module,omitempty"`
	CourseFinish bool    `json:"course_finished"`
	Title        string  `json:"title"`
	Detail       string  `json:"detail"`
	Progress     Summary `json:"course_progress"`
}

type ModuleResponse struct {
	Module    int  `json:"module"`
	Completed bool `json:"is_completed"`
	CanAccess bool `json:"can_access"`
}
