// Package tasksolver poses structured, multi-modal questions to LLM backends
// and parses the replies into typed answers, retrying when a reply does not
// fit the expected grammar.
//
// The root package holds the backend-agnostic data model: [Question],
// [TaskSpec], [ParsedAnswer], the [Provider] strategy interface, the session
// [Event] log and the [KeyChain]. Subpackages add the pieces around it:
//
//   - answers: the answer grammars (yes/no, starred lists, code, ...)
//   - providers: OpenAI, Anthropic, Gemini and Ollama backends over langchaingo
//   - solver: the shared request/parse/retry engine
//   - agent: a think/act/observe/reflect loop driven by a TaskSpec
//   - eventstore: file and Redis persistence for session events
//   - config: YAML configuration and task files
//
// # Quick Start
//
//	package main
//
//	import (
//	    "context"
//	    "fmt"
//
//	    "github.com/rickchristie/tasksolver"
//	    "github.com/rickchristie/tasksolver/answers"
//	    "github.com/rickchristie/tasksolver/providers"
//	    "github.com/rickchristie/tasksolver/solver"
//	)
//
//	func main() {
//	    keys := tasksolver.NewKeyChain()
//	    _ = keys.Add("openai", "/etc/tasksolver/openai.key")
//
//	    p, err := providers.Build(context.Background(),
//	        providers.Settings{Kind: providers.KindOpenAI, Model: "gpt-4o"}, keys)
//	    if err != nil {
//	        panic(err)
//	    }
//
//	    task := tasksolver.NewTaskSpec("cat", "Is the image a cat?", answers.YesNoType)
//	    s := solver.New(p, task)
//
//	    q := tasksolver.NewQuestion(tasksolver.Untagged(tasksolver.ImagePath("pet.jpg")))
//	    guess, err := s.RunOnce(context.Background(), q)
//	    if err != nil {
//	        panic(err)
//	    }
//	    fmt.Println(guess.Answer, tasksolver.IsSuccess(guess.Answer))
//	}
//
// # Errors
//
// Parse failures wrap [ErrParse] and are the only errors the solver retries.
// When the retry bound is hit the solver returns a [*MaxTriesError]. Every
// other error (provider failures, unsupported content, missing keys) is
// returned immediately.
package tasksolver
