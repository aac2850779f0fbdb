// Command tasksolver is an interactive prompt that answers questions about a
// task with the configured model.
//
//	tasksolver -config tasksolver.yaml -task cat.yaml
//
// Each line is a question. Words starting with @ name image files, as in
// "is this a cat? @photos/1.jpg". Lines starting with : are commands; see
// :help.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/rickchristie/tasksolver"
	"github.com/rickchristie/tasksolver/agent"
	"github.com/rickchristie/tasksolver/answers"
	"github.com/rickchristie/tasksolver/config"
	"github.com/rickchristie/tasksolver/internal/logging"
	"github.com/rickchristie/tasksolver/providers"
	"github.com/rs/zerolog/log"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorBold   = "\033[1m"
	colorDim    = "\033[2m"
)

const helpText = `Commands:
  :run <question>     think, act and reflect until the task is done
  :reflect            ask whether the task is done
  :interject <text>   record a correction
  :events             print the session log
  :save <file>        save the agent
  :new                start a new session
  :quit               exit`

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr,
			"%sError: %v%s\n",
			colorRed, err, colorReset)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "configuration file")
	taskPath := flag.String("task", "", "task file (required)")
	loadPath := flag.String("load", "", "resume an agent saved with :save")
	flag.Parse()

	if *taskPath == "" {
		flag.Usage()
		return errors.New("-task is required")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if err := logging.NewGlobal(cfg.Log.Level, cfg.Log.Pretty); err != nil {
		return err
	}

	task, err := config.LoadTask(*taskPath)
	if err != nil {
		return err
	}
	keys, err := cfg.KeyChain()
	if err != nil {
		return err
	}

	rl, err := readline.New(colorCyan + colorBold + "? " + colorReset)
	if err != nil {
		return fmt.Errorf("failed to create readline: %w", err)
	}
	defer rl.Close()

	judge := &humanJudge{rl: rl}
	task.Completed = judge.completed
	task.NextQuestionFunc = judge.followUp

	ctx := context.Background()
	store, err := cfg.EventStore(ctx)
	if err != nil {
		return err
	}

	opts := []agent.Option{
		agent.WithKeyChain(keys),
		agent.WithBaseURL(cfg.Provider.BaseURL),
		agent.WithSolverOptions(cfg.SolverOptions()...),
		agent.WithLoop(agent.DefaultLoop{MaxIterations: cfg.Agent.MaxIterations}),
	}
	if store != nil {
		opts = append(opts, agent.WithRecorder(store))
	}

	a, err := newAgent(ctx, cfg, keys, task, *loadPath, rl.Stdout(), opts)
	if err != nil {
		return err
	}

	fmt.Fprintf(rl.Stdout(), "%s%s%s using %s/%s, session %s%s\n",
		colorBold, task.Name, colorReset,
		a.Provider().Name(), a.Provider().Model(),
		a.SessionID(), colorReset)
	fmt.Fprintf(rl.Stdout(), "%s%s%s\n\n", colorDim, helpText, colorReset)

	for {
		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt || err == io.EOF {
				fmt.Fprintf(rl.Stdout(), "%sGoodbye!%s\n", colorGreen, colorReset)
				return nil
			}
			return fmt.Errorf("failed to read input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, ":") {
			quit, err := command(ctx, a, line, rl.Stdout())
			if err != nil {
				fmt.Fprintf(rl.Stderr(), "%sError: %v%s\n", colorRed, err, colorReset)
			}
			if quit {
				return nil
			}
			continue
		}

		if err := ask(ctx, a, ParseLine(line)); err != nil {
			fmt.Fprintf(rl.Stderr(), "%sError: %v%s\n", colorRed, err, colorReset)
		}
	}
}

func newAgent(
	ctx context.Context,
	cfg config.Config,
	keys *tasksolver.KeyChain,
	task *tasksolver.TaskSpec,
	loadPath string,
	out io.Writer,
	opts []agent.Option,
) (*agent.Agent, error) {
	actor := &consoleActor{out: out}
	if loadPath != "" {
		f, err := os.Open(loadPath)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return agent.Load(ctx, f, task, actor, nil, opts...)
	}

	p, err := providers.Build(ctx, cfg.Provider, keys)
	if err != nil {
		return nil, err
	}
	return agent.New(p, task, actor, opts...), nil
}

// ask thinks about q and shows the answer. Ctrl-C cancels the model call.
func ask(ctx context.Context, a *agent.Agent, q *tasksolver.Question) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, err := a.Think(ctx, q)
	if err != nil {
		return err
	}
	log.Debug().
		Int(logging.AttemptField, g.Attempts).
		Int("input_tokens", g.Usage.InputTokens).
		Int("output_tokens", g.Usage.OutputTokens).
		Msg("answered")

	_, err = a.Act(ctx, g.Answer)
	return err
}

func command(ctx context.Context, a *agent.Agent, line string, out io.Writer) (quit bool, err error) {
	name, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case ":quit", ":q":
		fmt.Fprintf(out, "%sGoodbye!%s\n", colorGreen, colorReset)
		return true, nil

	case ":help":
		fmt.Fprintln(out, helpText)

	case ":new":
		a.NewSession()
		fmt.Fprintf(out, "%snew session %s%s\n", colorDim, a.SessionID(), colorReset)

	case ":events":
		fmt.Fprintln(out, a.Events().String())

	case ":interject":
		if arg == "" {
			return false, errors.New("usage: :interject <correction>")
		}
		return false, a.Interject(ctx, tasksolver.Interact{
			Author:     os.Getenv("USER"),
			Correction: arg,
		})

	case ":save":
		if arg == "" {
			return false, errors.New("usage: :save <file>")
		}
		f, err := os.OpenFile(arg, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
		if err != nil {
			return false, err
		}
		defer f.Close()
		if err := a.Save(f); err != nil {
			return false, err
		}
		fmt.Fprintf(out, "%ssaved to %s%s\n", colorDim, arg, colorReset)

	case ":run":
		if arg == "" {
			return false, errors.New("usage: :run <question>")
		}
		ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()
		if err := a.Run(ctx, ParseLine(arg)); err != nil {
			return false, err
		}
		fmt.Fprintf(out, "%sTask complete.%s\n", colorGreen, colorReset)

	case ":reflect":
		next, err := a.Reflect(ctx)
		if err != nil {
			return false, err
		}
		if next == nil {
			fmt.Fprintf(out, "%sTask complete.%s\n", colorGreen, colorReset)
			return false, nil
		}
		return false, ask(ctx, a, next)

	default:
		return false, fmt.Errorf("unknown command %s, try :help", name)
	}
	return false, nil
}

// ParseLine turns an input line into a question. Words starting with @ become
// image files; the remaining words, in order, become one text item.
func ParseLine(line string) *tasksolver.Question {
	var (
		words  []string
		images []tasksolver.Item
	)
	for _, w := range strings.Fields(line) {
		if path, ok := strings.CutPrefix(w, "@"); ok && path != "" {
			images = append(images, tasksolver.Untagged(tasksolver.ImagePath(path)))
			continue
		}
		words = append(words, w)
	}

	var items []tasksolver.Item
	if len(words) > 0 {
		items = append(items, tasksolver.T(strings.Join(words, " ")))
	}
	return tasksolver.NewQuestion(append(items, images...)...)
}

// consoleActor shows answers to the user.
type consoleActor struct {
	out io.Writer
}

func (c *consoleActor) Act(_ context.Context, answer tasksolver.ParsedAnswer) (*agent.Action, error) {
	fmt.Fprintf(c.out, "%s%s%s\n", colorGreen, answer.String(), colorReset)
	return &agent.Action{Name: "show", Detail: answer.String()}, nil
}

func (c *consoleActor) Observe(_ context.Context, state map[string]any) (*agent.Observation, error) {
	return &agent.Observation{Summary: "shown to user", State: state}, nil
}

// humanJudge asks the user whether the task is done and what to ask next.
type humanJudge struct {
	rl *readline.Instance
}

func (h *humanJudge) prompt(text string) (string, error) {
	h.rl.SetPrompt(colorYellow + text + colorReset)
	defer h.rl.SetPrompt(colorCyan + colorBold + "? " + colorReset)
	return h.rl.Readline()
}

func (h *humanJudge) completed(_ context.Context, _ tasksolver.Session) (*tasksolver.Question, tasksolver.ParsedAnswer, error) {
	q := tasksolver.Texts("Is the task done? (yes/no) ")
	for {
		line, err := h.prompt(q.String())
		if err != nil {
			return nil, nil, err
		}
		answer, err := answers.ParseYesNo(line)
		if err == nil {
			return q, answer, nil
		}
	}
}

func (h *humanJudge) followUp(_ context.Context, _ tasksolver.History) (*tasksolver.Question, error) {
	line, err := h.prompt("What should it try next? ")
	if err != nil {
		return nil, err
	}
	return ParseLine(line), nil
}
