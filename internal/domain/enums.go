package domain

import (
	"fmt"
	"strings"
)

type ContentStatus string

const (
	StatusIdea      ContentStatus = "idea"
	StatusPlanned   ContentStatus = "planned"
	StatusWriting   ContentStatus = "writing"
	StatusReview    ContentStatus = "review"
	StatusPublished ContentStatus = "published"
)

// ValidContentStatuses lists the editorial lifecycle in order.
var ValidContentStatuses = []ContentStatus{
	StatusIdea, StatusPlanned, StatusWriting, StatusReview, StatusPublished,
}

// legacyStatuses maps values written by older releases onto the current lifecycle.
var legacyStatuses = map[string]ContentStatus{
	"completed": StatusPublished,
}

// ParseContentStatus accepts any lifecycle status, case-insensitively, plus
// legacy aliases.
func ParseContentStatus(s string) (ContentStatus, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if mapped, ok := legacyStatuses[v]; ok {
		return mapped, nil
	}
	for _, st := range ValidContentStatuses {
		if string(st) == v {
			return st, nil
		}
	}
	return "", fmt.Errorf("invalid status %q: must be one of idea, planned, writing, review, published", s)
}

// NormalizeContentStatus is the lenient form of ParseContentStatus used when
// loading stored entries: unknown values fall back to idea.
func NormalizeContentStatus(s string) ContentStatus {
	st, err := ParseContentStatus(s)
	if err != nil {
		return StatusIdea
	}
	return st
}

func (s ContentStatus) Label() string {
	switch s {
	case StatusIdea:
		return "Ideia"
	case StatusPlanned:
		return "Planejado"
	case StatusWriting:
		return "Em Redação"
	case StatusReview:
		return "Revisão"
	case StatusPublished:
		return "Publicado"
	default:
		return string(s)
	}
}

// InProgress reports whether the entry is being actively worked on.
func (s ContentStatus) InProgress() bool {
	return s == StatusPlanned || s == StatusWriting || s == StatusReview
}

type ComplexityLevel string

const (
	LevelBasic        ComplexityLevel = "basic"
	LevelIntermediate ComplexityLevel = "intermediate"
	LevelAdvanced     ComplexityLevel = "advanced"
)

var ComplexityLevels = []ComplexityLevel{LevelBasic, LevelIntermediate, LevelAdvanced}

func ParseComplexityLevel(s string) (ComplexityLevel, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	for _, l := range ComplexityLevels {
		if string(l) == v {
			return l, nil
		}
	}
	return "", fmt.Errorf("invalid complexity level %q: must be basic, intermediate or advanced", s)
}

func (l ComplexityLevel) Label() string {
	switch l {
	case LevelBasic:
		return "Básico / Fundamentos"
	case LevelIntermediate:
		return "Intermediário / Prático"
	case LevelAdvanced:
		return "Avançado / Visionário"
	default:
		return string(l)
	}
}

// Persona names the writing voice adopted for the level.
func (l ComplexityLevel) Persona() string {
	switch l {
	case LevelBasic:
		return "Professor Especialista em Fundamentos"
	case LevelIntermediate:
		return "Consultor Prático Sênior"
	case LevelAdvanced:
		return "Visionário Disruptivo"
	default:
		return "Redator Especialista"
	}
}

// Focus describes what the outline should emphasise at this level.
func (l ComplexityLevel) Focus() string {
	switch l {
	case LevelBasic:
		return "conceitos essenciais, definições claras e exemplos introdutórios"
	case LevelIntermediate:
		return "aplicação prática, processos, ferramentas e estudos de caso"
	case LevelAdvanced:
		return "tendências emergentes, implicações estratégicas e visão de futuro"
	default:
		return "visão geral equilibrada"
	}
}

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleUser:
		return RoleUser, nil
	}
	return "", fmt.Errorf("invalid role %q: must be admin or user", s)
}

type ChatRole string

const (
	ChatUser      ChatRole = "user"
	ChatAssistant ChatRole = "assistant"
)
