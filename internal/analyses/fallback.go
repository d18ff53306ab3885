package analyses

// FallbackResult returns the fixed placeholder analysis served when no
// provider produced a usable response. It is never cached.
func FallbackResult() Result {
	return Result{
		OverallScore: 78,
		Sections: map[string]Section{
			SectionSkills:     {Score: 85, Matches: 12, Total: 15},
			SectionExperience: {Score: 72, Matches: 8, Total: 10},
			SectionEducation:  {Score: 90, Matches: 3, Total: 3},
			SectionKeywords:   {Score: 65, Matches: 18, Total: 25},
		},
		MatchedSkills: []string{
			"React", "TypeScript", "Node.js", "Python", "SQL", "Git",
			"Agile", "Scrum", "REST APIs", "MongoDB", "AWS", "Docker",
		},
		MissingSkills: []string{"Kubernetes", "GraphQL", "Redux"},
		Suggestions: []Suggestion{
			{
				Category:    "Skills Gap",
				Priority:    PriorityHigh,
				Title:       "Add missing technical skills",
				Description: "Consider adding experience with Kubernetes and GraphQL to better match the job requirements.",
				Action:      "Add these skills to your technical skills section or highlight any related experience.",
			},
			{
				Category:    "Keywords",
				Priority:    PriorityMedium,
				Title:       "Include more industry keywords",
				Description: "Your resume could benefit from including more specific keywords from the job description.",
				Action:      "Incorporate terms like 'scalable applications', 'microservices', and 'cloud architecture'.",
			},
			{
				Category:    "ATS Optimization",
				Priority:    PriorityMedium,
				Title:       "Improve ATS compatibility",
				Description: "Some formatting might not be ATS-friendly.",
				Action:      "Use standard section headers and avoid complex formatting or graphics.",
			},
		},
	}
}
