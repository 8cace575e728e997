package domain

type ExamType string

const (
	ExamCELPIP    ExamType = "celpip"
	ExamCambridge ExamType = "cambridge"
	ExamIELTS     ExamType = "ielts"
)

// ExamTypes is the fixed order in which exam collections are assembled,
// reconciled and displayed.
var ExamTypes = []ExamType{ExamCELPIP, ExamCambridge, ExamIELTS}

// Label returns the display name of the exam family.
func (t ExamType) Label() string {
	switch t {
	case ExamCELPIP:
		return "CELPIP"
	case ExamCambridge:
		return "Cambridge"
	case ExamIELTS:
		return "IELTS"
	default:
		return string(t)
	}
}

type Skill string

const (
	SkillSpeaking  Skill = "speaking"
	SkillListening Skill = "listening"
	SkillReading   Skill = "reading"
	SkillWriting   Skill = "writing"
	SkillType      Skill = "type"
)

// Skills is the fixed skill order used when concatenating seed documents.
var Skills = []Skill{SkillSpeaking, SkillListening, SkillReading, SkillWriting, SkillType}

// DefaultSkill is assumed for exercises that do not declare one.
const DefaultSkill = SkillSpeaking

// Label returns the display name of the skill.
func (s Skill) Label() string {
	switch s {
	case SkillSpeaking:
		return "Speaking"
	case SkillListening:
		return "Listening"
	case SkillReading:
		return "Reading"
	case SkillWriting:
		return "Writing"
	case SkillType:
		return "Type"
	default:
		return string(s)
	}
}

// IsQuiz reports whether exercises of this skill are answered as a quiz.
func (s Skill) IsQuiz() bool {
	return s == SkillListening || s == SkillReading || s == SkillType
}

// ValidExamTypes is the canonical set of accepted exam type strings.
var ValidExamTypes = map[string]bool{
	"celpip": true, "cambridge": true, "ielts": true,
}

// ValidSkills is the canonical set of accepted skill strings.
var ValidSkills = map[string]bool{
	"speaking": true, "listening": true, "reading": true,
	"writing": true, "type": true,
}

// ParseExamType resolves a user-supplied exam type, case-insensitively.
func ParseExamType(s string) (ExamType, bool) {
	t := ExamType(lower(s))
	return t, ValidExamTypes[string(t)]
}

// ParseSkill resolves a user-supplied skill, case-insensitively.
func ParseSkill(s string) (Skill, bool) {
	sk := Skill(lower(s))
	return sk, ValidSkills[string(sk)]
}
