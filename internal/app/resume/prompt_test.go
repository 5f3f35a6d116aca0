package resume

import (
	"strings"
	"testing"
)

func TestBuildTailorPrompt(t *testing.T) {
	got := BuildTailorPrompt("Jane Doe, Go engineer", "Senior Go role")

	if !strings.HasPrefix(got, "Act as an expert technical recruiter and career coach.") {
		t.Fatalf("unexpected prompt start: %q", got[:60])
	}
	if !strings.Contains(got, "**Original Resume:**\nJane Doe, Go engineer\n---") {
		t.Fatalf("resume not in place:\n%s", got)
	}
	if !strings.Contains(got, "**Job Description:**\nSenior Go role\n---") {
		t.Fatalf("job description not in place:\n%s", got)
	}
	if !strings.HasSuffix(got, "**Tailored Resume:**") {
		t.Fatalf("unexpected prompt end:\n%s", got)
	}
	if strings.Contains(got, "{base_resume}") || strings.Contains(got, "{job_description}") {
		t.Fatalf("placeholder left in prompt:\n%s", got)
	}
}

func TestBuildTailorPromptKeepsBraces(t *testing.T) {
	resume := "Built {json} APIs and mentioned {job_description} literally"
	got := BuildTailorPrompt(resume, "JD")

	if !strings.Contains(got, resume) {
		t.Fatalf("resume text altered:\n%s", got)
	}
	if strings.Count(got, "\nJD\n") != 1 {
		t.Fatalf("expected job description once:\n%s", got)
	}
}
