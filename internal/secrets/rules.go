package secrets

// DefaultRules returns the default detection rules. The set covers the
// credentials forge actually handles: model provider keys, GitHub tokens
// for template fetching, Supabase keys (JWTs), and connection strings that
// can show up in generated env files and agent transcripts.
func DefaultRules() []Rule {
	return []Rule{
		// Model providers
		{
			ID:          "anthropic-api-key",
			Description: "Anthropic API Key",
			Pattern:     `sk-ant-[A-Za-z0-9_\-]{90,}`,
			Severity:    "high",
		},
		{
			ID:          "openai-api-key",
			Description: "OpenAI API Key",
			Pattern:     `sk-[A-Za-z0-9]{48,}`,
			Keywords:    []string{"openai"},
			Severity:    "high",
		},
		{
			ID:          "google-api-key",
			Description: "Google API Key",
			Pattern:     `AIza[A-Za-z0-9_\-]{35}`,
			Severity:    "high",
		},

		// GitHub (prefixes are self-identifying)
		{
			ID:          "github-token",
			Description: "GitHub Personal Access Token",
			Pattern:     `ghp_[A-Za-z0-9]{36}`,
			Severity:    "high",
		},
		{
			ID:          "github-oauth",
			Description: "GitHub OAuth Access Token",
			Pattern:     `gho_[A-Za-z0-9]{36}`,
			Severity:    "high",
		},
		{
			ID:          "github-app",
			Description: "GitHub App Token",
			Pattern:     `(?:ghu|ghs)_[A-Za-z0-9]{36}`,
			Severity:    "high",
		},
		{
			ID:          "github-fine-grained",
			Description: "GitHub Fine-grained Personal Access Token",
			Pattern:     `github_pat_[A-Za-z0-9_]{22,}`,
			Severity:    "high",
		},

		// Supabase anon and service role keys are JWTs; the eyJ prefix is
		// a base64 encoded JSON header and self-identifying.
		{
			ID:          "jwt",
			Description: "JSON Web Token",
			Pattern:     `eyJ[A-Za-z0-9_-]*\.eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]*`,
			Severity:    "high",
		},
		{
			ID:          "supabase-env-key",
			Description: "Supabase key assignment in env file",
			Pattern:     `(?i)(?:SUPABASE_SERVICE_ROLE_KEY|SUPABASE_ANON_KEY|NEXT_PUBLIC_SUPABASE_ANON_KEY|SUPABASE_DB_PASSWORD)\s*=\s*\S{8,}`,
			Severity:    "high",
		},

		// Connection strings with inline credentials
		{
			ID:          "database-url",
			Description: "Database Connection URL with credentials",
			Pattern:     `(?i)(?:postgres|postgresql|mysql|mongodb|redis)://[^:]+:[^@]+@[^\s]+`,
			Severity:    "high",
		},

		// Generic assignments
		{
			ID:          "generic-api-key",
			Description: "Generic API Key",
			Pattern:     `(?i)(?:api[_-]?key|apikey)\s*[:=]\s*['"]?([A-Za-z0-9_\-]{16,64})['"]?`,
			Keywords:    []string{"api", "key"},
			Severity:    "high",
		},
		{
			ID:          "generic-secret",
			Description: "Generic Secret",
			Pattern:     `(?i)(?:secret|password|passwd|pwd)\s*[:=]\s*['"]?([^\s'"]{8,})['"]?`,
			Keywords:    []string{"secret", "password"},
			Severity:    "high",
		},

		// Key material
		{
			ID:          "private-key",
			Description: "Private Key",
			Pattern:     `-----BEGIN (?:RSA |DSA |EC |OPENSSH |PGP )?PRIVATE KEY(?:[- ]BLOCK)?-----`,
			Severity:    "high",
		},

		// Authorization headers echoed by agents
		{
			ID:          "bearer-token",
			Description: "Bearer Token in Authorization Header",
			Pattern:     `(?i)(?:authorization|bearer)\s*[:=]\s*['"]?bearer\s+([A-Za-z0-9_\-\.]{20,})['"]?`,
			Keywords:    []string{"authorization", "bearer"},
			Severity:    "medium",
		},
	}
}
