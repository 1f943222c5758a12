package strength

import "github.com/nbutton23/zxcvbn-go"

// MaxEstimateLength is the number of runes of a password (and of each user
// input) zxcvbn looks at. Its run time grows much faster than linearly with the
// length, and longer passwords already get the top score.
const MaxEstimateLength = 100

// Estimation is the zxcvbn guess of how hard a password is to crack. It is
// informational only and never changes a Verdict.
type Estimation struct {
	Score            int     `json:"score"`
	Entropy          float64 `json:"entropy"`
	CrackTime        float64 `json:"crackTime"`
	CrackTimeDisplay string  `json:"crackTimeDisplay"`
}

// Estimate runs zxcvbn over the password. userInputs are extra words (user
// names, emails) that should be penalized if found in the password.
func Estimate(password string, userInputs ...string) Estimation {
	inputs := make([]string, 0, len(userInputs))
	for _, in := range userInputs {
		inputs = append(inputs, truncate(in, MaxEstimateLength))
	}

	entropy := zxcvbn.PasswordStrength(truncate(password, MaxEstimateLength), inputs)
	return Estimation{
		Score:            entropy.Score,
		Entropy:          entropy.Entropy,
		CrackTime:        entropy.CrackTime,
		CrackTimeDisplay: entropy.CrackTimeDisplay,
	}
}

func truncate(s string, runes int) string {
	n := 0
	for i := range s {
		if n == runes {
			return s[:i]
		}
		n++
	}
	return s
}
