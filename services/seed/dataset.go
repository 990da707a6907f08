package seed

// ProjectSeed is a demo project keyed for child references
type ProjectSeed struct {
	Key         string
	Name        string
	Description string
}

// TaskSeed is a demo task belonging to the project with ProjectKey
type TaskSeed struct {
	ProjectKey  string
	Title       string
	Description string
	Status      string
}

// VulnerabilitySeed is a demo finding belonging to the project with ProjectKey
type VulnerabilitySeed struct {
	ProjectKey  string
	Title       string
	Description string
	Severity    string
	Status      string
}

// Dataset is the full set of demo rows
type Dataset struct {
	Projects        []ProjectSeed
	Tasks           []TaskSeed
	Vulnerabilities []VulnerabilitySeed
}

// DefaultDataset returns the demo data inserted by the seed command
func DefaultDataset() Dataset {
	return Dataset{
		Projects: []ProjectSeed{
			{
				Key:         "acme-cloud",
				Name:        "Acme Cloud Hardening",
				Description: "Baseline security posture review and remediation tracking for Acme's cloud stack.",
			},
			{
				Key:         "globex-web",
				Name:        "Globex Web App Assessment",
				Description: "OWASP-style assessment of the customer portal and supporting APIs.",
			},
			{
				Key:         "initech-internal",
				Name:        "Initech Internal Red Team",
				Description: "Internal red team exercise focused on lateral movement and detection gaps.",
			},
		},
		Tasks: []TaskSeed{
			// Acme Cloud
			{"acme-cloud", "Review IAM policies and roles", "Identify overly broad permissions and define least-privilege roles.", "in_progress"},
			{"acme-cloud", "Enable org-wide audit logging", "Ensure audit logs are enabled and shipped to centralized SIEM.", "open"},
			{"acme-cloud", "Rotate long-lived credentials", "Replace static credentials with short-lived tokens / workload identity.", "blocked"},
			{"acme-cloud", "Implement S3 bucket policy guardrails", "Prevent public buckets and enforce encryption at rest.", "done"},
			// Globex Web
			{"globex-web", "Threat model login + session flows", "Document assumptions, attack surface, and abuse cases for auth flows.", "open"},
			{"globex-web", "Run dynamic scan against staging", "Baseline DAST scan with tuned rules to reduce noise.", "in_progress"},
			{"globex-web", "Verify CSP and cookie flags", "Ensure HttpOnly/Secure/SameSite and CSP headers are correctly set.", "done"},
			// Initech Internal
			{"initech-internal", "Enumerate AD trust relationships", "Map trust boundaries and privileged groups.", "open"},
			{"initech-internal", "Test EDR detection on LSASS access", "Validate alerts and response for credential dumping attempts.", "in_review"},
			{"initech-internal", "Document remediation playbook", "Create actionable remediation steps for common red team findings.", "open"},
		},
		Vulnerabilities: []VulnerabilitySeed{
			// Globex Web
			{"globex-web", "SQL Injection in search endpoint", "User-supplied query is concatenated into SQL without parameterization.", "critical", "open"},
			{"globex-web", "Stored XSS in profile bio", "HTML is not sanitized before rendering in the admin dashboard.", "high", "triaged"},
			{"globex-web", "Insecure password reset tokens", "Reset token has low entropy and is valid for too long.", "high", "in_progress"},
			// Acme Cloud
			{"acme-cloud", "Publicly accessible storage bucket", "Misconfigured bucket ACL allows anonymous read access.", "high", "open"},
			{"acme-cloud", "Over-permissive service account", "Service account has editor privileges across the org.", "medium", "triaged"},
			// Initech Internal
			{"initech-internal", "Weak SMB signing configuration", "SMB signing not required on key servers, enabling relay attacks.", "medium", "open"},
			{"initech-internal", "Excessive local admin membership", "Too many users/groups are local admins on endpoints.", "low", "accepted"},
		},
	}
}
