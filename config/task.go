package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rickchristie/tasksolver"
	"github.com/rickchristie/tasksolver/answers"
	"github.com/rickchristie/tasksolver/schema"
	"gopkg.in/yaml.v3"
)

// ExampleFile is one worked example in a task file.
type ExampleFile struct {
	Question    string   `yaml:"question"`
	Images      []string `yaml:"images"`
	Answer      string   `yaml:"answer"`
	Explanation string   `yaml:"explanation"`
}

// TaskFile is the YAML form of a task.
//
//	name: cat
//	description: Is the image a cat?
//	answer: yesno
//	examples:
//	  - question: Is this a cat?
//	    images: [examples/cat.jpg]
//	    answer: "yes"
type TaskFile struct {
	Name           string        `yaml:"name"`
	Description    string        `yaml:"description"`
	Answer         string        `yaml:"answer"`
	FormatGuidance bool          `yaml:"format_guidance"`
	Background     string        `yaml:"background"`
	Examples       []ExampleFile `yaml:"examples"`
}

var taskSchema = schema.MustCompile(schema.Object(map[string]*schema.Property{
	"name":            schema.String("Task name").MinLength(1),
	"description":     schema.String("What the model is asked to do").MinLength(1),
	"answer":          schema.String("Answer type, e.g. yesno or code:go").MinLength(1),
	"format_guidance": schema.Boolean("Append the answer type's format guidance"),
	"background":      schema.String("Background information"),
	"examples": schema.Array("Worked examples", schema.Object(map[string]*schema.Property{
		"question":    schema.String("Question text"),
		"images":      schema.Array("Image files, relative to the task file", map[string]any{"type": "string"}),
		"answer":      schema.String("Expected model output").MinLength(1),
		"explanation": schema.String("Reasoning shown before the answer"),
	}, "answer")),
}, "name", "description", "answer"))

// LoadTask reads a task file. Example image paths are resolved against the
// file's directory.
func LoadTask(path string) (*tasksolver.TaskSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", tasksolver.ErrInvalidConfig, err)
	}
	return ParseTask(data, filepath.Dir(path))
}

// ParseTask decodes a task document. Relative image paths are joined to dir.
func ParseTask(data []byte, dir string) (*tasksolver.TaskSpec, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", tasksolver.ErrInvalidConfig, err)
	}
	if err := taskSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: task: %v", tasksolver.ErrInvalidConfig, err)
	}

	var tf TaskFile
	if err := yaml.Unmarshal(data, &tf); err != nil {
		return nil, fmt.Errorf("%w: %v", tasksolver.ErrInvalidConfig, err)
	}
	return tf.Build(dir)
}

// Build creates the task the file describes.
func (tf TaskFile) Build(dir string) (*tasksolver.TaskSpec, error) {
	answer, err := answers.Lookup(tf.Answer)
	if err != nil {
		return nil, fmt.Errorf("%w: task %s: %v", tasksolver.ErrInvalidConfig, tf.Name, err)
	}

	task := tasksolver.NewTaskSpec(tf.Name, tf.Description, answer)
	task.FormatGuidance = tf.FormatGuidance
	if tf.Background != "" {
		task.Background = tasksolver.Texts(tf.Background)
	}

	for i, ex := range tf.Examples {
		q := ExampleQuestion(ex, dir)
		parsed, err := answer.Parse(ex.Answer)
		if err != nil {
			return nil, fmt.Errorf("%w: task %s example %d: %v", tasksolver.ErrInvalidConfig, tf.Name, i+1, err)
		}
		if err := task.AddExample(q, parsed, ex.Explanation); err != nil {
			return nil, fmt.Errorf("%w: task %s: %v", tasksolver.ErrInvalidConfig, tf.Name, err)
		}
	}
	return task, nil
}

// ExampleQuestion builds the question of an example: its text, then its
// images.
func ExampleQuestion(ex ExampleFile, dir string) *tasksolver.Question {
	var items []tasksolver.Item
	if ex.Question != "" {
		items = append(items, tasksolver.T(ex.Question))
	}
	for _, img := range ex.Images {
		if !filepath.IsAbs(img) && dir != "" {
			img = filepath.Join(dir, img)
		}
		items = append(items, tasksolver.Untagged(tasksolver.ImagePath(img)))
	}
	return tasksolver.NewQuestion(items...)
}
