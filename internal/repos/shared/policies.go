package shared

// ConfirmationPolicy decides whether destructive batch steps wait for user approval.
type ConfirmationPolicy int

const (
	// ConfirmationPrompt requires an interactive confirmation before executing.
	ConfirmationPrompt ConfirmationPolicy = iota
	// ConfirmationAssumeYes proceeds without asking.
	ConfirmationAssumeYes
)

// ConfirmationPolicyFromBool maps the assume-yes flag onto a policy.
func ConfirmationPolicyFromBool(assumeYes bool) ConfirmationPolicy {
	if assumeYes {
		return ConfirmationAssumeYes
	}
	return ConfirmationPrompt
}

// ShouldPrompt reports whether an interactive confirmation is required.
func (policy ConfirmationPolicy) ShouldPrompt() bool {
	return policy != ConfirmationAssumeYes
}

// ShouldAssumeYes reports whether confirmation prompts are skipped.
func (policy ConfirmationPolicy) ShouldAssumeYes() bool {
	return policy == ConfirmationAssumeYes
}
