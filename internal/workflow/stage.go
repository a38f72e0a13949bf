package workflow

import (
	"errors"
	"fmt"
)

// Stage is a wizard screen.
type Stage string

const (
	StageAuth              Stage = "auth"
	StageCalendar          Stage = "calendar"
	StageConfiguration     Stage = "configuration"
	StageSubTopicSelection Stage = "subtopic_selection"
	StageSpecificity       Stage = "specificity_agent"
	StageBriefing          Stage = "briefing"
	StageGeneration        Stage = "generation"
	StageAdmin             Stage = "admin"
)

// Stages lists every stage in wizard order, Admin last.
var Stages = []Stage{
	StageAuth, StageCalendar, StageConfiguration, StageSubTopicSelection,
	StageSpecificity, StageBriefing, StageGeneration, StageAdmin,
}

// Step is the 1-based position of a planning stage in the progress bar, or
// 0 for stages outside the planning flow.
func (s Stage) Step() int {
	switch s {
	case StageConfiguration:
		return 1
	case StageSubTopicSelection:
		return 2
	case StageSpecificity:
		return 3
	case StageBriefing:
		return 4
	case StageGeneration:
		return 5
	default:
		return 0
	}
}

func (s Stage) Label() string {
	switch s {
	case StageAuth:
		return "Acesso"
	case StageCalendar:
		return "Calendário"
	case StageConfiguration:
		return "Configuração"
	case StageSubTopicSelection:
		return "Ângulo"
	case StageSpecificity:
		return "Profundidade"
	case StageBriefing:
		return "Briefing"
	case StageGeneration:
		return "Resultado"
	case StageAdmin:
		return "Administração"
	default:
		return string(s)
	}
}

// Event is a user action or collaborator result that may move the wizard.
type Event string

const (
	EventSignIn            Event = "sign_in"
	EventSignOut           Event = "sign_out"
	EventShowCalendar      Event = "show_calendar"
	EventPickDay           Event = "pick_day"
	EventDefineAngle       Event = "define_angle"
	EventSaveDraft         Event = "save_draft"
	EventSelectSubTopic    Event = "select_subtopic"
	EventConfirmLevel      Event = "confirm_level"
	EventRefineViaBriefing Event = "refine_via_briefing"
	EventGenerateNow       Event = "generate_now"
	EventGenerate          Event = "generate"
	EventBack              Event = "back"
	EventNewSubject        Event = "new_subject"
	EventOpenAdmin         Event = "open_admin"
)

// Command is a side effect the controller runs after a transition, in order.
type Command string

const (
	CmdLoadCalendar   Command = "load_calendar"
	CmdSaveStrategy   Command = "save_strategy"
	CmdFetchSubTopics Command = "fetch_subtopics"
	CmdFetchApproach  Command = "fetch_approach"
	CmdStartBriefing  Command = "start_briefing"
	CmdDropBriefing   Command = "drop_briefing"
	CmdKeepBriefing   Command = "keep_briefing"
	CmdGenerate       Command = "generate"
	CmdResetSession   Command = "reset_session"
	CmdClearUser      Command = "clear_user"
)

// Guards are the facts about the session a transition may depend on.
type Guards struct {
	Authenticated    bool
	Admin            bool
	StrategyComplete bool
	SubTopicChosen   bool
	LevelConfirmed   bool
	BriefingReady    bool
}

// Transition is the result of a successful Next.
type Transition struct {
	From     Stage
	To       Stage
	Event    Event
	Commands []Command
}

var (
	ErrTransitionRejected = errors.New("transition rejected")
	ErrIncompleteStrategy = fmt.Errorf("%w: topic, subject, audience and expertise are required", ErrTransitionRejected)
	ErrLevelLocked        = fmt.Errorf("%w: complexity level already confirmed", ErrTransitionRejected)
	ErrNotReady           = fmt.Errorf("%w: briefing is not ready", ErrTransitionRejected)
	ErrNotAdmin           = fmt.Errorf("%w: admin role required", ErrTransitionRejected)
)

// Next computes the stage that follows ev from the given stage. It is a pure
// function: the returned commands describe the side effects, and a rejected
// event leaves the stage unchanged.
func Next(from Stage, ev Event, g Guards) (Transition, error) {
	to, cmds, err := next(from, ev, g)
	if err != nil {
		return Transition{From: from, To: from, Event: ev}, err
	}
	return Transition{From: from, To: to, Event: ev, Commands: cmds}, nil
}

func next(from Stage, ev Event, g Guards) (Stage, []Command, error) {
	if from == StageAuth {
		if ev == EventSignIn && g.Authenticated {
			return StageCalendar, []Command{CmdLoadCalendar}, nil
		}
		return reject(from, ev)
	}
	if !g.Authenticated {
		return reject(from, ev)
	}

	// Available from every authenticated screen.
	switch ev {
	case EventSignOut:
		return StageAuth, []Command{CmdResetSession, CmdClearUser}, nil
	case EventOpenAdmin:
		if !g.Admin {
			return from, nil, ErrNotAdmin
		}
		if from == StageConfiguration {
			return StageAdmin, []Command{CmdSaveStrategy}, nil
		}
		return StageAdmin, nil, nil
	case EventShowCalendar:
		if from == StageConfiguration {
			return StageCalendar, []Command{CmdSaveStrategy, CmdLoadCalendar}, nil
		}
		return StageCalendar, []Command{CmdLoadCalendar}, nil
	}

	switch from {
	case StageCalendar:
		if ev == EventPickDay {
			return StageConfiguration, []Command{CmdDropBriefing}, nil
		}

	case StageConfiguration:
		switch ev {
		case EventDefineAngle:
			if !g.StrategyComplete {
				return from, nil, ErrIncompleteStrategy
			}
			return StageSubTopicSelection, []Command{CmdSaveStrategy, CmdFetchSubTopics}, nil
		case EventSaveDraft:
			return StageCalendar, []Command{CmdSaveStrategy, CmdResetSession, CmdLoadCalendar}, nil
		case EventBack:
			return StageCalendar, []Command{CmdSaveStrategy, CmdLoadCalendar}, nil
		}

	case StageSubTopicSelection:
		switch ev {
		case EventSelectSubTopic:
			if !g.SubTopicChosen {
				return reject(from, ev)
			}
			return StageSpecificity, nil, nil
		case EventBack:
			return StageConfiguration, nil, nil
		}

	case StageSpecificity:
		switch ev {
		case EventConfirmLevel:
			if g.LevelConfirmed {
				return from, nil, ErrLevelLocked
			}
			return StageSpecificity, []Command{CmdFetchApproach}, nil
		case EventRefineViaBriefing:
			if !g.LevelConfirmed {
				return reject(from, ev)
			}
			return StageBriefing, []Command{CmdStartBriefing}, nil
		case EventGenerateNow:
			if !g.LevelConfirmed {
				return reject(from, ev)
			}
			return StageGeneration, []Command{CmdGenerate, CmdSaveStrategy}, nil
		case EventBack:
			if g.LevelConfirmed {
				return from, nil, ErrLevelLocked
			}
			return StageSubTopicSelection, nil, nil
		}

	case StageBriefing:
		switch ev {
		case EventGenerate:
			if !g.BriefingReady {
				return from, nil, ErrNotReady
			}
			return StageGeneration, []Command{CmdKeepBriefing, CmdGenerate, CmdSaveStrategy}, nil
		case EventBack:
			return StageSpecificity, []Command{CmdDropBriefing}, nil
		}

	case StageGeneration:
		switch ev {
		case EventBack:
			return StageBriefing, []Command{CmdStartBriefing}, nil
		case EventNewSubject:
			return StageCalendar, []Command{CmdResetSession, CmdLoadCalendar}, nil
		}

	case StageAdmin:
		if ev == EventBack {
			return StageCalendar, []Command{CmdLoadCalendar}, nil
		}
	}
	return reject(from, ev)
}

func reject(from Stage, ev Event) (Stage, []Command, error) {
	return from, nil, fmt.Errorf("%w: %s is not allowed in %s", ErrTransitionRejected, ev, from)
}
