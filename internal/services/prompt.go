package services

import (
	"fmt"
	"strings"

	"google.golang.org/genai"

	"alfredoptarigan/hsu-leads-ocr/internal/models"
)

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildExtractionPrompt creates the instruction that precedes the page images.
func (pb *PromptBuilder) BuildExtractionPrompt() string {
	labels := make([]string, len(models.StudentFields))
	for i, f := range models.StudentFields {
		labels[i] = fmt.Sprintf("'%s'", f.Label)
	}
	keys := make([]string, len(models.StudentFields))
	for i, f := range models.StudentFields {
		keys[i] = fmt.Sprintf("'%s'", f.Key)
	}

	return fmt.Sprintf(`You are an expert OCR system specialized in extracting student application data for Hoa Sen University (HSU) from Vietnam.
Analyze the following image(s) of school data forms or spreadsheets.
Extract the data for each unique student record.
The required columns are: %s.
Ignore any headers, footers, summary rows, or rows that do not represent a student record.
Return the result as a JSON array where each object represents one student.
The keys of the object must be exactly: %s.
If a value is not found for a field, use an empty string "". Ensure the email format is valid.
Process all images provided to compile a complete list.
`, strings.Join(labels, ", "), strings.Join(keys, ", "))
}

// StudentRecordSchema is an array of objects with every StudentRecord field required.
func StudentRecordSchema() *genai.Schema {
	keys := models.StudentFieldKeys()
	properties := make(map[string]*genai.Schema, len(models.StudentFields))
	for _, f := range models.StudentFields {
		properties[f.Key] = &genai.Schema{
			Type:        genai.TypeString,
			Description: f.Description,
		}
	}

	return &genai.Schema{
		Type: genai.TypeArray,
		Items: &genai.Schema{
			Type:             genai.TypeObject,
			Properties:       properties,
			Required:         keys,
			PropertyOrdering: keys,
		},
	}
}
