package service

import "github.com/tics/site-backend-go/internal/model"

// DefaultJobs is the job board installed by the seed-jobs command.
func DefaultJobs() []model.CreateJobParams {
	return []model.CreateJobParams{
		{
			Title:       "Senior Full Stack Developer",
			Department:  "Engineering",
			Location:    "Remote / New York, NY",
			Type:        model.JobTypeFullTime,
			Description: "We are looking for an experienced Full Stack Developer to join our team. You will be responsible for developing and maintaining web applications using modern technologies.",
			Requirements: []string{
				"5+ years of experience in web development",
				"Proficiency in React, Node.js, and MongoDB",
				"Strong problem-solving skills",
				"Experience with cloud platforms (AWS/Azure)",
				"Excellent communication skills",
			},
			IsActive: true,
		},
		{
			Title:       "UI/UX Designer",
			Department:  "Design",
			Location:    "San Francisco, CA",
			Type:        model.JobTypeFullTime,
			Description: "Join our design team to create beautiful and intuitive user experiences. You will work closely with developers and product managers to bring designs to life.",
			Requirements: []string{
				"3+ years of UI/UX design experience",
				"Proficiency in Figma, Adobe XD",
				"Strong portfolio showcasing design skills",
				"Understanding of user research methodologies",
				"Knowledge of design systems",
			},
			IsActive: true,
		},
		{
			Title:       "Cloud Solutions Architect",
			Department:  "Engineering",
			Location:    "Remote",
			Type:        model.JobTypeFullTime,
			Description: "Design and implement scalable cloud infrastructure solutions. You will work with clients to migrate and optimize their cloud environments.",
			Requirements: []string{
				"7+ years of cloud architecture experience",
				"Expertise in AWS, Azure, or GCP",
				"Kubernetes and Docker experience",
				"Strong understanding of DevOps practices",
				"Certifications preferred (AWS Solutions Architect, etc.)",
			},
			IsActive: true,
		},
		{
			Title:       "Cybersecurity Specialist",
			Department:  "Security",
			Location:    "Remote / Boston, MA",
			Type:        model.JobTypeFullTime,
			Description: "Protect our clients' systems and data from cyber threats. Conduct security audits, implement security measures, and respond to incidents.",
			Requirements: []string{
				"5+ years of cybersecurity experience",
				"Knowledge of security frameworks (OWASP, NIST)",
				"Experience with penetration testing",
				"Certifications (CISSP, CEH, etc.) preferred",
				"Strong analytical skills",
			},
			IsActive: true,
		},
		{
			Title:       "Mobile App Developer",
			Department:  "Engineering",
			Location:    "Austin, TX",
			Type:        model.JobTypeFullTime,
			Description: "Develop native and cross-platform mobile applications for iOS and Android. Work on exciting projects that reach millions of users.",
			Requirements: []string{
				"4+ years of mobile development experience",
				"Proficiency in React Native or Flutter",
				"Experience with native iOS/Android development",
				"Strong understanding of mobile UI/UX",
				"Published apps in App Store/Play Store",
			},
			IsActive: true,
		},
	}
}
