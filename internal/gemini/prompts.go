package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sakif/codescribe/internal/model"
)

// languageGuidance adds analysis hints for stacks that benefit from
// framework-aware documentation.
var languageGuidance = map[string]string{
	"JavaScript (React)": `For React components, analyze:
- Component type (functional/class)
- Props and their usage
- State management (useState, useEffect, etc.)
- Component lifecycle
- Context usage
- Custom hooks
- Event handlers
- Render logic`,
	"Vue.js": `For Vue components, analyze:
- Component structure
- Props and events
- Data properties
- Computed properties
- Methods
- Lifecycle hooks
- Watchers
- Template syntax`,
	"C++": `For C++ code, analyze:
- Class hierarchies
- Memory management
- STL usage
- Algorithms
- Performance considerations
- Header organization
- Template usage`,
}

func guidanceFor(stack model.TechStack) string {
	var parts []string
	for _, lang := range stack.Languages {
		if g, ok := languageGuidance[lang]; ok {
			parts = append(parts, g)
		}
	}
	return strings.Join(parts, "\n\n")
}

func documentationPrompt(files json.RawMessage, stack model.TechStack) string {
	return fmt.Sprintf(`As an expert developer, analyze the following codebase and generate detailed documentation.

Technical Stack Detected:
Languages: %s
Frameworks: %s

Codebase: %s

%s

Please provide a comprehensive analysis following this structure:

1. Project Overview
   - Main purpose and functionality
   - Key features
   - Technologies used

2. Technical Stack Analysis
   - Languages and versions
   - Frameworks and libraries
   - Architecture patterns used

3. Detailed Code Analysis
   For each file:
   - Purpose and responsibility
   - Language/framework-specific features used
   - Key functions/components and their roles
   - Important variables and their usage
   - Logic flow explanation
   - Any notable algorithms or patterns

4. Dependencies and Integration
   - External libraries used
   - How different parts interact
   - API integrations (if any)

5. Setup and Configuration
   - Installation steps
   - Required environment variables
   - Configuration options

6. Best Practices and Patterns
   - Language-specific best practices followed
   - Framework-specific patterns used
   - Error handling approach
   - Performance considerations

7. Potential Improvements
   - Code optimization suggestions
   - Scalability considerations
   - Security recommendations

Please format the documentation in Markdown and ensure it's developer-friendly with code examples where relevant.`,
		strings.Join(stack.Languages, ", "),
		strings.Join(stack.Frameworks, ", "),
		string(files),
		guidanceFor(stack),
	)
}

// GenerateDocumentation produces Markdown documentation for a repository
// file tree, using the detected stack to steer the analysis.
func (c *Client) GenerateDocumentation(ctx context.Context, files json.RawMessage, stack model.TechStack) (string, error) {
	return c.Generate(ctx, documentationPrompt(files, stack))
}

var diagramGuidance = map[string]string{
	"flowchart": `- Use rectangles for processes
- Use diamonds for decisions
- Use parallelograms for input/output
- Use arrows to show flow direction
- Include clear labels for each element`,
	"sequence": `- Use participants for different components
- Show message flow between participants
- Include activation bars for method calls
- Show return messages
- Include notes for important points`,
	"class": `- Show class names and properties
- Include method signatures
- Show inheritance relationships
- Include associations and dependencies
- Use proper UML notation`,
}

func analysisPrompt(files json.RawMessage, diagramType string) string {
	return fmt.Sprintf(`Analyze the following repository structure and generate documentation specifically for creating a %s diagram:

Repository Structure:
%s

Please analyze and document:
1. Main components and their relationships
2. Data flow between components
3. Key functions and their interactions
4. Important classes and their methods
5. Entry points and exit points
6. Control flow and decision points
7. External dependencies and integrations

Focus on aspects that are relevant for creating a %s diagram.`, diagramType, string(files), diagramType)
}

func diagramPrompt(analysis, diagramType string) string {
	return fmt.Sprintf(`Based on the following analysis, generate a %s diagram using Mermaid.js syntax:

Analysis:
%s

Requirements:
1. Use proper Mermaid.js syntax for %s diagrams
2. Include all major components and their relationships
3. Show data flow and control flow clearly
4. Use appropriate shapes and connectors
5. Make the diagram well-organized and easy to understand
6. Return ONLY the Mermaid.js code without any additional text
7. The code should start with `+"```mermaid and end with ```"+`

For %s diagrams:
%s`, diagramType, analysis, diagramType, diagramType, diagramGuidance[diagramType])
}

// DiagramResult is the outcome of the two-phase diagram generation.
type DiagramResult struct {
	MermaidCode string
	Analysis    string
}

// GenerateDiagram runs two sequential generations: a structural analysis
// of the repository, then a Mermaid rendering of that analysis. Both
// calls must succeed.
func (c *Client) GenerateDiagram(ctx context.Context, files json.RawMessage, diagramType string) (*DiagramResult, error) {
	analysis, err := c.Generate(ctx, analysisPrompt(files, diagramType))
	if err != nil {
		return nil, err
	}

	raw, err := c.Generate(ctx, diagramPrompt(analysis, diagramType))
	if err != nil {
		return nil, err
	}

	return &DiagramResult{
		MermaidCode: stripMermaidFences(raw),
		Analysis:    analysis,
	}, nil
}

// stripMermaidFences removes a leading ```mermaid fence and trailing ```
// so the result is bare diagram source.
func stripMermaidFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```mermaid\n")
	s = strings.TrimSuffix(s, "\n```")
	return strings.TrimSpace(s)
}
