package pipeline

import (
	"fmt"
	"sort"
	"strings"

	"mail-assistant/internal/knowledge"
)

// noStaffSentinel keeps the prompt coherent when the profile lists nobody.
const noStaffSentinel = "No staff information available."

// BuildContext renders the per-intent knowledge block embedded in the user
// prompt. Appointment, services and emergency get dedicated blocks; every
// other intent relies on the base prompt alone. Missing profile fields
// render as empty or partial blocks, never as an error.
func BuildContext(intent Intent, profile *knowledge.Profile) string {
	switch intent {
	case IntentAppointment:
		return buildAppointmentContext(profile)
	case IntentServices:
		return buildServicesContext(profile)
	case IntentEmergency:
		return buildEmergencyContext(profile)
	default:
		return ""
	}
}

func buildAppointmentContext(profile *knowledge.Profile) string {
	var b strings.Builder
	b.WriteString("Booking Information:\n")
	b.WriteString(fmt.Sprintf("- Phone: %s\n", profile.Contact.Phone))
	for _, key := range sortedKeys(profile.Policies) {
		b.WriteString(fmt.Sprintf("- %s: %s\n", titleCaseKey(key), profile.Policies[key]))
	}
	return b.String()
}

func buildServicesContext(profile *knowledge.Profile) string {
	var b strings.Builder
	b.WriteString("Our Services:\n")
	for _, name := range profile.ServiceCategoryNames() {
		b.WriteString(fmt.Sprintf("- %s: %s\n", titleCaseKey(name), profile.Services[name].String()))
	}
	return b.String()
}

func buildEmergencyContext(profile *knowledge.Profile) string {
	var b strings.Builder
	b.WriteString("For emergencies:\n")
	b.WriteString(fmt.Sprintf("- Contact us at %s\n", profile.Contact.Phone))
	b.WriteString(fmt.Sprintf("- Location: %s\n", profile.Location))
	b.WriteString("Our staff:\n")
	b.WriteString(formatStaff(profile.Staff))
	return b.String()
}

func formatStaff(staff []knowledge.StaffMember) string {
	if len(staff) == 0 {
		return noStaffSentinel + "\n"
	}
	var b strings.Builder
	for _, member := range staff {
		b.WriteString(fmt.Sprintf("- %s (Specialties: %s)\n",
			member.Name, strings.Join(member.Specialties, ", ")))
	}
	return b.String()
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// titleCaseKey renders a snake_case profile key as human-readable words.
func titleCaseKey(key string) string {
	words := strings.Split(strings.ReplaceAll(key, "_", " "), " ")
	for i, word := range words {
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}
