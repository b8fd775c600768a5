// AngelaMos | 2026
// entity.go

package progress

import (
	"golang.org/x/text/message"

	"github.com/carterperez-dev/templates/course-gate/internal/course"
	"github.com/carterperez-dev/templates/course-gate/internal/i18n"
)

type Summary struct {
	Completed  int `json:"completed"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"`
}

type ModuleStatus struct {
	Module    int     `json:"module"`
	Completed bool    `json:"is_completed"`
	CanAccess bool    `json:"can_access"`
	Progress  Summary `json:"course_progress"`
}

type ModuleState struct {
	Module     int  `json:"module"`
	Completed  bool `json:"completed"`
	Accessible bool `json:"accessible"`
}

type DebugReport struct {
	Modules  []ModuleState `json:"modules"`
	Progress Summary       `json:"progress"`
}

// Completion describes what finishing a module unlocked.
type Completion struct {
	Module       int
	NextModule   int
	CourseFinish bool
}

func NewCompletion(module int) Completion {
	c := Completion{Module: module}
	if module < course.TotalModules {
		c.NextModule = module + 1
	} else {
		c.CourseFinish = true
	}
	return c
}

func (c Completion) Title(p *message.Printer) string {
	return p.Sprintf(i18n.MsgModuleCompleted, c.Module)
}

func (c Completion) Detail(p *message.Printer) string {
	if c.CourseFinish {
		return p.Sprintf(i18n.MsgCourseFinished)
	}
	return p.Sprintf(i18n.MsgModuleUnlocked, c.NextModule)
}
