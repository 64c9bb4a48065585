package prompts

import "fmt"

// Message represents a single message in a chat-like conversation with the LLM.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// PlanningSystemPrompt instructs the planning model to turn a cURL command
// into a structured operation plan. The plan format is a convention consumed
// by the code generation prompt; it is never machine-validated.
const PlanningSystemPrompt = `You are an expert at parsing cURL commands and extracting REST API details.
Extract the HTTP method, headers, URL path, and request body from the provided cURL command.
Infer an appropriate operation name based on the endpoint and method.
Analyze the request body and response type to determine appropriate DTO schemas.

Return a markdown string with these details in the following format:

# API: ` + "`http://example.com/users`" + `
# Operation: ` + "`getUser`" + `
# HTTP Method: ` + "`GET`" + `
# Request Body: ` + "`{ \"id\": 123 }`" + `
# Response Body: ` + "`{ \"name\": \"John Doe\", \"age\": 42 }`"

// CodeGenSystemPrompt instructs the codegen model. It fixes the artifact roles
// (DTOs, interface, WebClient implementation) and the filename marker format
// the extractor's first tier relies on.
const CodeGenSystemPrompt = `You are an expert Java developer specializing in REST API implementations.
Generate idiomatic Java code based on the provided REST operation plan.

Create the following files:
1. Domain classes for request and response DTOs
2. Interface defining the operation
3. Implementation class using Spring WebClient
4. A runnable Example class with a main method exercising the operation

Follow these guidelines:
- Use proper Java naming conventions
- Include necessary imports
- Use modern Java features (Java 17+)
- For implementation, use Spring WebClient
- Include appropriate exception handling
- Add JavaDoc comments

For each file, start with a filename comment like: // Filename: ClassName.java`

// ValidationSystemPrompt instructs the validation model to analyze toolchain
// error output and produce structured, actionable feedback.
const ValidationSystemPrompt = `You are an expert Java developer who can analyze both compilation and runtime errors.
Examine the provided error output and identify all issues.

For each error, provide:
1. The error location (file and line number if available)
2. The error message or exception
3. A detailed explanation of what caused the error
4. A suggested fix with code examples where appropriate

If there are multiple errors, prioritize them by severity and address the root causes first.
Return a structured markdown response with these details, organized in a clear and readable format.`

// BuildPlanningUserPrompt wraps the raw cURL command for the planning model.
func BuildPlanningUserPrompt(curlCommand string) string {
	return fmt.Sprintf("Parse the following input and extract REST operation details:\n\n```\n%s\n```", curlCommand)
}

// BuildCodeGenUserPrompt embeds the operation plan for a first generation attempt.
func BuildCodeGenUserPrompt(plan string) string {
	return fmt.Sprintf("Generate Java code for the following REST operation plan:\n\n%s", plan)
}

// BuildCodeGenRetryPrompt embeds the plan plus the previous attempt's
// diagnostic text as an explicit fix instruction. The diagnostic is included
// verbatim so nothing the toolchain reported gets lost between attempts.
func BuildCodeGenRetryPrompt(plan, feedback string) string {
	return fmt.Sprintf(`Operation Plan:
%s

Previous code had compilation or runtime errors. Please fix the following issues:
%s`, plan, feedback)
}

// BuildValidationUserPrompt wraps raw toolchain error output for analysis.
// errorType is "compilation" or "runtime".
func BuildValidationUserPrompt(errorType, errorOutput string) string {
	return fmt.Sprintf("Analyze the following Java %s error output and provide structured feedback:\n\n```\n%s\n```\n\nPlease identify the issues, explain their causes, and suggest specific fixes.", errorType, errorOutput)
}
