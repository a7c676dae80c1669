package shell

import "strings"

// pipeIndexes returns the byte offsets of every unquoted, unescaped pipe
// in line. Quote state is tracked with the same rules as the segment
// scanner; an unterminated quote simply swallows the rest of the line,
// the expander reports it later with a proper offset.
func pipeIndexes(line string) []int {
	var indexes []int
	var quote byte
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch quote {
		case 0:
			switch c {
			case '\\':
				i++ // escaped character, never a separator
			case '\'', '"':
				quote = c
			case '|':
				indexes = append(indexes, i)
			}
		case '\'':
			if c == '\'' {
				quote = 0
			}
		case '"':
			if c == '\\' {
				i++
			} else if c == '"' {
				quote = 0
			}
		}
	}
	return indexes
}

// Split cuts line into raw pipeline stages at unquoted, unescaped pipes.
//
// The stage text is returned as written, surrounding whitespace included;
// trimming happens naturally during expansion. A blank line yields zero
// stages. A stage with no command text (adjacent, leading or trailing
// pipes) yields an EmptyPipelineStageError naming the stage.
func Split(line string) ([]string, error) {
	if strings.TrimSpace(line) == "" {
		return nil, nil
	}

	pipes := pipeIndexes(line)
	stages := make([]string, 0, len(pipes)+1)
	prev := 0
	for _, p := range pipes {
		stages = append(stages, line[prev:p])
		prev = p + 1
	}
	stages = append(stages, line[prev:])

	for i, stage := range stages {
		if strings.TrimSpace(stage) == "" {
			return nil, &EmptyPipelineStageError{Stage: i}
		}
	}
	return stages, nil
}
