package resume

import "strings"

const tailorTemplate = `Act as an expert technical recruiter and career coach. Your task is to rewrite the following resume to be perfectly tailored for the provided job description.

**Instructions:**
1. Analyze the job description to identify the most important keywords, skills, and qualifications.
2. Rewrite the professional summary and experience bullet points to highlight the candidate's skills and accomplishments that are most relevant to the job description.
3. Incorporate the keywords from the job description naturally into the resume.
4. Focus on achievements and impact, using metrics where possible. Do not invent new facts, only rephrase and emphasize existing information.
5. Maintain a professional and confident tone.
6. The output should be the full, rewritten resume in Markdown format.

---
**Original Resume:**
{base_resume}
---
**Job Description:**
{job_description}
---
**Tailored Resume:**`

// BuildTailorPrompt fills the tailoring template. Both texts are inserted
// verbatim, braces and all.
func BuildTailorPrompt(baseResume, jobDescription string) string {
	r := strings.NewReplacer(
		"{base_resume}", baseResume,
		"{job_description}", jobDescription,
	)
	return r.Replace(tailorTemplate)
}
