package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNext_TransitionTable(t *testing.T) {
	authed := Guards{Authenticated: true}
	complete := Guards{Authenticated: true, StrategyComplete: true}
	chosen := Guards{Authenticated: true, StrategyComplete: true, SubTopicChosen: true}
	confirmed := Guards{Authenticated: true, StrategyComplete: true, SubTopicChosen: true, LevelConfirmed: true}
	ready := confirmed
	ready.BriefingReady = true

	cases := []struct {
		from Stage
		ev   Event
		g    Guards
		to   Stage
		cmds []Command
	}{
		{StageAuth, EventSignIn, authed, StageCalendar, []Command{CmdLoadCalendar}},
		{StageCalendar, EventPickDay, authed, StageConfiguration, []Command{CmdDropBriefing}},
		{StageConfiguration, EventDefineAngle, complete, StageSubTopicSelection, []Command{CmdSaveStrategy, CmdFetchSubTopics}},
		{StageConfiguration, EventSaveDraft, authed, StageCalendar, []Command{CmdSaveStrategy, CmdResetSession, CmdLoadCalendar}},
		{StageSubTopicSelection, EventSelectSubTopic, chosen, StageSpecificity, nil},
		{StageSpecificity, EventConfirmLevel, chosen, StageSpecificity, []Command{CmdFetchApproach}},
		{StageSpecificity, EventRefineViaBriefing, confirmed, StageBriefing, []Command{CmdStartBriefing}},
		{StageSpecificity, EventGenerateNow, confirmed, StageGeneration, []Command{CmdGenerate, CmdSaveStrategy}},
		{StageBriefing, EventGenerate, ready, StageGeneration, []Command{CmdKeepBriefing, CmdGenerate, CmdSaveStrategy}},
		{StageGeneration, EventBack, ready, StageBriefing, []Command{CmdStartBriefing}},
		{StageGeneration, EventNewSubject, ready, StageCalendar, []Command{CmdResetSession, CmdLoadCalendar}},
		{StageSubTopicSelection, EventBack, chosen, StageConfiguration, nil},
		{StageSpecificity, EventBack, chosen, StageSubTopicSelection, nil},
		{StageBriefing, EventBack, confirmed, StageSpecificity, []Command{CmdDropBriefing}},
		{StageAdmin, EventBack, authed, StageCalendar, []Command{CmdLoadCalendar}},
	}
	for _, tc := range cases {
		t.Run(string(tc.from)+"/"+string(tc.ev), func(t *testing.T) {
			tr, err := Next(tc.from, tc.ev, tc.g)
			require.NoError(t, err)
			assert.Equal(t, tc.from, tr.From)
			assert.Equal(t, tc.to, tr.To)
			assert.Equal(t, tc.ev, tr.Event)
			assert.Equal(t, tc.cmds, tr.Commands)
		})
	}
}

func TestNext_DefineAngleRequiresEveryField(t *testing.T) {
	tr, err := Next(StageConfiguration, EventDefineAngle, Guards{Authenticated: true})
	assert.ErrorIs(t, err, ErrIncompleteStrategy)
	assert.ErrorIs(t, err, ErrTransitionRejected)
	assert.Equal(t, StageConfiguration, tr.To)
	assert.Empty(t, tr.Commands)
}

func TestNext_LevelIsLockedOnceConfirmed(t *testing.T) {
	g := Guards{Authenticated: true, SubTopicChosen: true, LevelConfirmed: true}
	_, err := Next(StageSpecificity, EventConfirmLevel, g)
	assert.ErrorIs(t, err, ErrLevelLocked)
	_, err = Next(StageSpecificity, EventBack, g)
	assert.ErrorIs(t, err, ErrLevelLocked)
}

func TestNext_ExitsNeedConfirmedLevel(t *testing.T) {
	g := Guards{Authenticated: true, SubTopicChosen: true}
	_, err := Next(StageSpecificity, EventGenerateNow, g)
	assert.ErrorIs(t, err, ErrTransitionRejected)
	_, err = Next(StageSpecificity, EventRefineViaBriefing, g)
	assert.ErrorIs(t, err, ErrTransitionRejected)
}

func TestNext_GenerateNeedsReadiness(t *testing.T) {
	_, err := Next(StageBriefing, EventGenerate, Guards{Authenticated: true, LevelConfirmed: true})
	assert.ErrorIs(t, err, ErrNotReady)
}

func TestNext_SelectSubTopicNeedsChoice(t *testing.T) {
	_, err := Next(StageSubTopicSelection, EventSelectSubTopic, Guards{Authenticated: true})
	assert.ErrorIs(t, err, ErrTransitionRejected)
}

func TestNext_AuthGate(t *testing.T) {
	_, err := Next(StageAuth, EventSignIn, Guards{})
	assert.ErrorIs(t, err, ErrTransitionRejected)

	for _, s := range Stages {
		if s == StageAuth {
			continue
		}
		_, err := Next(s, EventShowCalendar, Guards{})
		assert.ErrorIs(t, err, ErrTransitionRejected, "stage %s without a user", s)
	}
}

func TestNext_OrthogonalEvents(t *testing.T) {
	admin := Guards{Authenticated: true, Admin: true}
	for _, s := range Stages {
		if s == StageAuth {
			continue
		}
		tr, err := Next(s, EventSignOut, admin)
		require.NoError(t, err)
		assert.Equal(t, StageAuth, tr.To)
		assert.Equal(t, []Command{CmdResetSession, CmdClearUser}, tr.Commands)

		tr, err = Next(s, EventOpenAdmin, admin)
		require.NoError(t, err)
		assert.Equal(t, StageAdmin, tr.To)

		_, err = Next(s, EventOpenAdmin, Guards{Authenticated: true})
		assert.ErrorIs(t, err, ErrNotAdmin)

		tr, err = Next(s, EventShowCalendar, admin)
		require.NoError(t, err)
		assert.Equal(t, StageCalendar, tr.To)
	}
}

func TestNext_LeavingConfigurationSaves(t *testing.T) {
	g := Guards{Authenticated: true, Admin: true, StrategyComplete: true}
	for _, ev := range []Event{EventDefineAngle, EventSaveDraft, EventBack, EventShowCalendar, EventOpenAdmin} {
		tr, err := Next(StageConfiguration, ev, g)
		require.NoError(t, err)
		assert.NotEqual(t, StageConfiguration, tr.To)
		assert.Contains(t, tr.Commands, CmdSaveStrategy, "event %s", ev)
	}
}

func TestNext_UnknownEventRejected(t *testing.T) {
	tr, err := Next(StageCalendar, EventGenerate, Guards{Authenticated: true})
	assert.ErrorIs(t, err, ErrTransitionRejected)
	assert.Equal(t, StageCalendar, tr.To)
}

func TestStageStep(t *testing.T) {
	assert.Equal(t, 1, StageConfiguration.Step())
	assert.Equal(t, 5, StageGeneration.Step())
	assert.Equal(t, 0, StageAdmin.Step())
	assert.Equal(t, "Resultado", StageGeneration.Label())
}
