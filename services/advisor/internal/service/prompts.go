package service

import "text/template"

var analyzeCVPrompt = template.Must(template.New("analyze_cv").Parse(`You are a professional career assistant AI. Analyze the following CV text
and return ONLY valid JSON (no explanations, no markdown).

Return this structure:
{
  "name": "Candidate's name",
  "email": "Candidate's email",
  "total_experience_years": number,
  "top_skills": ["skill1", "skill2", "skill3", ...],
  "summary": "A short summary about the candidate"
}

CV TEXT:
{{.Text}}
`))

var questionsPrompt = template.Must(template.New("generate_questions").Parse(`You are an intelligent career interviewer.
Based on this candidate's CV, generate {{.Count}} relevant and diverse interview questions.
Make them thoughtful and personalized.

CV DATA:
{{.CV}}

Respond ONLY in JSON:
{
  "questions": [
    "Question 1",
    "Question 2"
  ]
}
`))

var resultPrompt = template.Must(template.New("generate_result").Parse(`You are an expert career advisor AI.
Based on the following candidate CV data and their interview answers,
recommend the top {{.Count}} most suitable jobs in JSON format only.

Candidate CV:
{{.CV}}

Interview Answers:
{{.Answers}}

Return ONLY valid JSON like this:
{
  "recommendations": [
    {
      "title": "Job Title",
      "company": "Company Name",
      "match_score": number (0-100),
      "reason": "Why this job fits them",
      "skills_to_learn": ["Skill1", "Skill2"],
      "salary": "Salary range in INR (e.g. 10-15 LPA)"
    }
  ]
}
`))
