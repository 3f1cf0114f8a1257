package models

// Agent statuses used throughout the codebase.
const (
	AgentStatusActive   = "active"
	AgentStatusInactive = "inactive"
)

// Team statuses. Idle is assigned explicitly (e.g. when all tasks are
// completed); the core never derives it.
const (
	TeamStatusActive   = "active"
	TeamStatusInactive = "inactive"
	TeamStatusIdle     = "idle"
)

// Agent types (specializations).
const (
	AgentTypeInformation  = "information"
	AgentTypeContent      = "content"
	AgentTypeDevelopment  = "development"
	AgentTypeAnalysis     = "analysis"
	AgentTypeCoordination = "coordination"
	AgentTypeDesign       = "design"
	AgentTypeQuality      = "quality"
)

// FilterAll is the wildcard value accepted by status/type filters.
const FilterAll = "all"

// AgentStatuses lists the valid agent statuses.
var AgentStatuses = []string{AgentStatusActive, AgentStatusInactive}

// TeamStatuses lists the valid team statuses.
var TeamStatuses = []string{TeamStatusActive, TeamStatusInactive, TeamStatusIdle}

// AgentTypes lists the valid agent specializations.
var AgentTypes = []string{
	AgentTypeInformation,
	AgentTypeContent,
	AgentTypeDevelopment,
	AgentTypeAnalysis,
	AgentTypeCoordination,
	AgentTypeDesign,
	AgentTypeQuality,
}

// ValidAgentStatus reports whether s is a recognized agent status.
func ValidAgentStatus(s string) bool {
	return s == AgentStatusActive || s == AgentStatusInactive
}

// ValidTeamStatus reports whether s is a recognized team status.
func ValidTeamStatus(s string) bool {
	return s == TeamStatusActive || s == TeamStatusInactive || s == TeamStatusIdle
}

// ValidAgentType reports whether s is a recognized agent type.
func ValidAgentType(s string) bool {
	for _, t := range AgentTypes {
		if s == t {
			return true
		}
	}
	return false
}

// Default limits.
const (
	DefaultMaxRequestBodyBytes = 1 << 20 // 1 MiB
	DefaultSSEChannelBuffer    = 256
	DefaultLayoutRadius        = 200.0
	DefaultLayoutCenterX       = 400.0
	DefaultLayoutCenterY       = 300.0
)
