package prompt

import "github.com/thesrcielos/CodeClash/internal/challenge"

const (
	genericChallengePrompt = "Generate a coding challenge appropriate for the specified difficulty level."
	genericScoringPrompt   = "Evaluate the code based on correctness, quality, and efficiency."
)

var defaults = map[challenge.Type]Set{
	challenge.TypeDebug: {
		Challenge: "You are an expert programming instructor creating debug challenges for competitive coding. " +
			"Create a code snippet with 2-3 deliberate bugs that students need to fix. The bugs should be realistic " +
			"mistakes that beginners and intermediate programmers commonly make. Include syntax errors, logic errors, " +
			"or edge case issues. Make the challenge educational and appropriate for the specified difficulty level.",
		Scoring: "You are an AI code evaluator for a competitive coding platform. Evaluate the submitted code that " +
			"was supposed to fix bugs in the original buggy code. Consider: 1) Did they fix all the bugs correctly? " +
			"(50 points) 2) Is the code clean and readable? (30 points) 3) Did they add any improvements or " +
			"optimizations? (20 points). Be fair but strict in your evaluation.",
	},
	challenge.TypeProblemSolving: {
		Challenge: "You are an expert programming instructor creating problem-solving challenges for competitive " +
			"coding. Create an algorithmic problem that requires writing code from scratch. The problem should test " +
			"data structures, algorithms, and problem-solving skills. Include clear examples, constraints, and " +
			"expected output format. Make it appropriate for the specified difficulty level and programming language.",
		Scoring: "You are an AI code evaluator for a competitive coding platform. Evaluate the submitted solution to " +
			"the coding problem. Consider: 1) Does the solution correctly solve the problem and handle edge cases? " +
			"(50 points) 2) Is the code well-structured, readable, and follows best practices? (30 points) 3) Is the " +
			"algorithm efficient in terms of time and space complexity? (20 points). Provide constructive feedback.",
	},
}

// Default returns the built-in prompts for t, or generic ones for an unknown
// type.
func Default(t challenge.Type) Set {
	if set, ok := defaults[t]; ok {
		return set
	}
	return Set{Challenge: genericChallengePrompt, Scoring: genericScoringPrompt}
}
