package pipeline

import (
	"fmt"
	"strings"

	"mail-assistant/internal/knowledge"
	"mail-assistant/internal/llm"
	"mail-assistant/internal/mail"
)

// Assemble combines the static persona template, the full business summary
// and the per-intent context block into one prompt pair. Deterministic for
// identical inputs; the email body is passed through verbatim.
func Assemble(email mail.Email, profile *knowledge.Profile, template, context string) llm.PromptPair {
	return llm.PromptPair{
		System: enhanceSystemPrompt(template, profile),
		User:   buildUserPrompt(email, context),
	}
}

// enhanceSystemPrompt appends the business summary to the persona template.
// The summary is always present regardless of intent.
func enhanceSystemPrompt(template string, profile *knowledge.Profile) string {
	var parts []string

	parts = append(parts, fmt.Sprintf("You are responding as a representative of %s.", profile.Name))
	parts = append(parts, fmt.Sprintf("Location: %s", profile.Location))
	parts = append(parts, fmt.Sprintf("Contact: Phone %s, Website %s", profile.Contact.Phone, profile.Contact.Website))

	parts = append(parts, "\nKey Information:")
	parts = append(parts, fmt.Sprintf("- We specialize in: %s", strings.Join(profile.Specializations, ", ")))

	if len(profile.Services) > 0 {
		parts = append(parts, "- Our services:")
		for _, name := range profile.ServiceCategoryNames() {
			parts = append(parts, fmt.Sprintf("  - %s: %s", titleCaseKey(name), profile.Services[name].String()))
		}
	}

	parts = append(parts, "- Our staff:")
	parts = append(parts, strings.TrimRight(formatStaff(profile.Staff), "\n"))

	if len(profile.Policies) > 0 {
		parts = append(parts, "- Our policies:")
		for _, key := range sortedKeys(profile.Policies) {
			parts = append(parts, fmt.Sprintf("  - %s: %s", titleCaseKey(key), profile.Policies[key]))
		}
	}

	if profile.Additional != "" {
		parts = append(parts, fmt.Sprintf("- Additional notes: %s", profile.Additional))
	}

	parts = append(parts, "\nPlease use this information to provide accurate responses about our services and policies.")

	return template + "\n" + strings.Join(parts, "\n")
}

// buildUserPrompt embeds the per-intent context block, then the email fields
// verbatim.
func buildUserPrompt(email mail.Email, context string) string {
	var b strings.Builder
	b.WriteString("Please respond to this email with the following context:\n")
	b.WriteString(context)
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("From: %s\n", email.From))
	b.WriteString(fmt.Sprintf("Subject: %s\n", email.Subject))
	b.WriteString("\nContent:\n")
	b.WriteString(email.Body)
	return b.String()
}
