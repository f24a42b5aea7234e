package challenge

import "strings"

// FallbackChallenge is served whenever generation fails so a round can always
// be created.
func FallbackChallenge(language string, t Type) Challenge {
	if t == TypeDebug {
		return Challenge{
			Type:        TypeDebug,
			Title:       "Fix the FizzBuzz",
			Description: "The following FizzBuzz implementation has bugs. Fix them to make it work correctly.",
			BuggyCode:   fallbackBuggyCode(language),
			Hints: []string{
				"Check the conditions carefully",
				"Look at the order of the if statements",
			},
			ExpectedOutput: "1, 2, Fizz, 4, Buzz, Fizz, 7, 8, Fizz, Buzz, 11, Fizz, 13, 14, FizzBuzz",
		}
	}
	return Challenge{
		Type:        TypeProblemSolving,
		Title:       "Sum of Two Numbers",
		Description: "Write a function that returns the sum of two numbers.",
		Examples: []Example{
			{Input: "a = 5, b = 3", Output: "8"},
			{Input: "a = -2, b = 7", Output: "5"},
		},
		Constraints: []string{"Numbers can be negative", "Return an integer"},
		StarterCode: fallbackStarterCode(language),
	}
}

func fallbackBuggyCode(language string) string {
	switch strings.ToLower(language) {
	case "python":
		return `for i in range(1, 16):
    if i % 3 = 0 and i % 5 == 0:
        print("FizzBuzz")
    elif i % 5 == 0:
        print("Buzz")
    elif i % 3 == 0:
        print("Fizz")
    else:
        print(i)`
	case "javascript":
		return `for (let i = 1; i <= 15; i++) {
    if (i % 3 === 0 && i % 5 = 0) {
        console.log("FizzBuzz");
    } else if (i % 5 === 0) {
        console.log("Buzz");
    } else if (i % 3 === 0) {
        console.log("Fizz");
    } else {
        console.log(i);
    }
}`
	default:
		return `// FizzBuzz with bugs
for (int i = 1; i <= 15; i++) {
    if (i % 3 == 0 && i % 5 = 0) {
        print("FizzBuzz");
    }
}`
	}
}

func fallbackStarterCode(language string) string {
	switch strings.ToLower(language) {
	case "python":
		return "def sum_numbers(a, b):\n    # Your code here\n    pass"
	case "javascript":
		return "function sumNumbers(a, b) {\n    // Your code here\n}"
	case "java":
		return "public int sumNumbers(int a, int b) {\n    // Your code here\n}"
	default:
		return "function sum(a, b) {\n    // Your code here\n}"
	}
}

// FailedEvaluation is the zero-score result returned when scoring fails.
func FailedEvaluation() Evaluation {
	return Evaluation{
		Score:       0,
		Explanation: "Unable to evaluate submission. API error occurred.",
		Feedback: Feedback{
			Correctness:  "Evaluation failed due to technical issues. Your code looks valid.",
			Quality:      "Unable to assess - please try again.",
			Efficiency:   "Unable to assess - please try again.",
			Improvements: []string{"Please try submitting again", "Contact support if this persists"},
		},
	}
}
