package challenge

import (
	"fmt"
	"strings"
)

var debugGuidelines = map[string]string{
	DifficultyEasy: `EASY (BEGINNER LEVEL - CRITICAL): Keep it EXTREMELY SIMPLE! Maximum 10-15 lines of code. Use ONLY basic concepts: simple loops (for/while), basic if/else, print statements, simple variables. Bugs should be OBVIOUS: typos, missing colons/semicolons, = instead of ==, simple off-by-one errors. Think: "first week of programming class". NO advanced concepts, NO recursion, NO complex algorithms. Should be solvable in 2-3 minutes.`,
	DifficultyMedium: `MEDIUM: Moderate complexity with 2-3 bugs involving logic errors, edge cases, or common programming mistakes. Should be solvable in 5-10 minutes. Examples: incorrect loop conditions, missing null checks, wrong array indexing, basic algorithm errors.`,
	DifficultyHard: `HARD: Complex bugs involving advanced concepts like recursion, data structures, or subtle logic errors. Should require 10-15 minutes. Examples: stack overflow, memory leaks, race conditions, complex algorithm bugs.`,
}

var problemGuidelines = map[string]string{
	DifficultyEasy: `EASY (BEGINNER LEVEL - CRITICAL): Keep it EXTREMELY SIMPLE! Use ONLY: basic loops (count from 1-10, iterate array), simple if/else (check even/odd, positive/negative), basic math (+, -, *, /), string length/concatenation, array length/access by index. NO sorting, NO searching algorithms, NO hash maps, NO recursion, NO complex logic. Think: "first month of programming". Examples: sum numbers 1 to N, count vowels in string, find largest in array, check if number is even. Should be solvable in 3-5 minutes with basic programming knowledge.`,
	DifficultyMedium: `MEDIUM: Moderate problems requiring basic algorithms or data structure knowledge. Should be solvable in 10-15 minutes. Examples: two-pointer techniques, hash maps, simple recursion, basic sorting/searching. Provide minimal starter code.`,
	DifficultyHard: `HARD: Complex algorithmic problems requiring advanced techniques. Should require 15-20 minutes. Examples: dynamic programming, graph algorithms, complex recursion, advanced data structures. Provide only function signature.`,
}

func guideline(table map[string]string, difficulty string) string {
	if g, ok := table[strings.ToLower(difficulty)]; ok {
		return g
	}
	return "MEDIUM"
}

func varietyContext(recent []string) string {
	if len(recent) == 0 {
		return "\nVARIETY REQUIREMENT: Generate a unique and creative problem. Avoid common textbook examples like FizzBuzz, factorial, palindrome, or sum of two numbers.\n"
	}
	return fmt.Sprintf(`
VARIETY REQUIREMENT:
The following problems have been used recently. DO NOT generate similar problems:
- %s

Generate a COMPLETELY DIFFERENT problem. Be creative and avoid any overlap with the above topics.
`, strings.Join(recent, "\n- "))
}

func buildChallengePrompt(req GenerateRequest) string {
	var b strings.Builder
	b.WriteString(req.Prompt)
	b.WriteString("\n")
	b.WriteString(varietyContext(req.RecentProblems))

	if req.Type == TypeDebug {
		fmt.Fprintf(&b, `
Requirements:
- Programming Language: %s
- Difficulty Level: %s
- Challenge Type: Debug Challenge
- Create a buggy code that needs to be fixed. Include 2-3 deliberate bugs.

DIFFICULTY GUIDELINES:
%s

IMPORTANT: The code should be SHORT and FOCUSED. Keep it under 20 lines. Don't create complex, production-level code.

Provide your response in this EXACT JSON format:
{
    "title": "Challenge title here",
    "description": "Clear description of what the code should do",
    "problem_summary": "Brief 5-10 word summary of the problem (e.g., 'fix array sorting with null values', 'debug recursive factorial function')",
    "buggy_code": "The code with bugs to fix",
    "hints": ["hint1", "hint2"],
    "expected_output": "What the correct output should be"
}

Respond ONLY with valid JSON, no additional text.
`, req.Language, req.Difficulty, guideline(debugGuidelines, req.Difficulty))
		return b.String()
	}

	fmt.Fprintf(&b, `
Requirements:
- Programming Language: %s
- Difficulty Level: %s
- Challenge Type: Problem Solving
- Create a problem that requires writing code from scratch.

DIFFICULTY GUIDELINES:
%s

IMPORTANT: Keep the problem scope REASONABLE. Don't create overly complex problems that would take hours to solve.

STARTER CODE REQUIREMENT:
You MUST provide starter code with an empty function signature to help students get started. The starter code should include:
- Function name that clearly describes what it does
- Correct parameter names and types (if applicable)
- Empty function body (use pass in Python, empty braces in other languages)
- A helpful comment indicating where students should write their code

EXAMPLES FORMATTING:
- Input and output should be SIMPLE STRINGS, not nested objects/JSON
- Format complex inputs as readable strings like "array = [1, 2, 3], target = 5"
- Format outputs as simple strings like "[0, 1]" or "true" or "15"

Provide your response in this EXACT JSON format:
{
    "title": "Challenge title here",
    "description": "Clear problem description",
    "problem_summary": "Brief 5-10 word summary of the problem (e.g., 'find duplicate numbers in array', 'validate email format with regex')",
    "examples": [
        {"input": "nums = [1, 2, 3], target = 5", "output": "[0, 1]"}
    ],
    "constraints": ["constraint1", "constraint2"],
    "starter_code": "Function signature with empty body - REQUIRED"
}

Respond ONLY with valid JSON, no additional text.
`, req.Language, req.Difficulty, guideline(problemGuidelines, req.Difficulty))
	return b.String()
}

const jsonRules = `CRITICAL JSON FORMATTING RULES:
1. The suggested_solution MUST be a single string value with properly escaped newlines (\n)
2. DO NOT use actual line breaks in the JSON - use \n instead
3. Escape any quotes inside the code using backslash (\")
4. The suggested_solution must be inside the feedback object, not at root level
5. Do NOT add any extra fields or keys beyond what's specified`

func buildScoringPrompt(req EvaluateRequest, question string) string {
	var b strings.Builder
	b.WriteString(req.Prompt)
	b.WriteString("\n\n")

	if req.Type == TypeDebug {
		fmt.Fprintf(&b, "Original Challenge with Buggy Code:\n%s\n\nFixed Code Submitted by Student (%s):\n%s\n\n", question, req.Language, req.Code)
		b.WriteString("Challenge Type: Debug/Bug Fixing\n")
		writeElapsed(&b, req)
		fmt.Fprintf(&b, `
Compare the buggy code with the fixed code and evaluate based on:
1. Bug Fixes (50 points): Did they identify and fix all the bugs correctly?
2. Code Quality (30 points): Is the fixed code clean, readable, and well-structured?
3. Improvements (20 points): Did they add any improvements beyond just fixing bugs?

IMPORTANT: Also provide a SUGGESTED SOLUTION showing the correct, bug-free version of the code. The suggested solution should:
- Fix all the bugs that were present in the original code
- Be clean, well-commented, and follow best practices
- Serve as a learning reference for the student
- Include it inside the feedback object as "suggested_solution"

%s

Provide your response in this EXACT JSON format:
{
    "score": 85,
    "explanation": "Brief explanation of the score",
    "feedback": {
        "correctness": "Which bugs were fixed correctly and which were missed",
        "quality": "Feedback on code quality and readability",
        "efficiency": "Any improvements or optimizations made",
        "improvements": ["suggestion1", "suggestion2"],
        "suggested_solution": "The corrected code with \n for newlines"
    }
}

Score must be between 0-100.
Respond ONLY with valid JSON, no additional text or extra fields.
`, jsonRules)
		return b.String()
	}

	fmt.Fprintf(&b, "Original Challenge:\n%s\n\nSubmitted Solution (%s):\n%s\n\n", question, req.Language, req.Code)
	b.WriteString("Challenge Type: Problem Solving\n")
	writeElapsed(&b, req)
	fmt.Fprintf(&b, `
IMPORTANT VALIDATION:
- Check if the submitted content contains programming constructs (functions, variables, loops, etc.)
- ONLY give a score of 0 if it's clearly NOT code (e.g., plain text like "i give up", "skip", single words, etc.)
- If it contains ANY code-like syntax or programming attempt (even if wrong/incomplete), evaluate it normally
- Be LENIENT - when in doubt, treat it as a code attempt and evaluate fairly

Evaluate this code based on:
1. Correctness (50 points): Does it solve the problem correctly and handle all edge cases?
2. Code Quality (30 points): Is it clean, readable, well-structured, and follows best practices?
3. Efficiency (20 points): Is the algorithm optimized in terms of time and space complexity?

IMPORTANT: Also provide a SUGGESTED SOLUTION that shows an optimal way to solve this problem. The suggested solution should:
- Be clean, well-commented, and follow best practices
- Handle all edge cases
- Use an efficient algorithm
- Serve as a learning reference for the student
- Include it inside the feedback object as "suggested_solution"

%s

Provide your response in this EXACT JSON format (copy this structure precisely):
{
    "score": 85,
    "explanation": "Brief explanation of the score",
    "feedback": {
        "correctness": "Detailed feedback on correctness and edge case handling",
        "quality": "Feedback on code quality, readability, and best practices",
        "efficiency": "Feedback on algorithm efficiency and optimizations",
        "improvements": ["suggestion1", "suggestion2"],
        "suggested_solution": "def function_name(params):\n    # Comment here\n    return result"
    }
}

Score must be between 0-100. Give 0 if submission is not actual code.
Respond ONLY with valid JSON, no additional text or extra fields.
`, jsonRules)
	return b.String()
}

func writeElapsed(b *strings.Builder, req EvaluateRequest) {
	if req.Elapsed > 0 {
		fmt.Fprintf(b, "Submission Time: %d seconds after the round started\n", int(req.Elapsed.Seconds()))
	}
}
