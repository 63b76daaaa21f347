package console

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/chzyer/readline"

	"github.com/nerrad567/oxsim-core/internal/profile"
)

const prompt = "oxsim> "

// Run reads commands from the terminal until quit, EOF or ctx is done.
// cancel is called on quit and EOF so the rest of the process shuts down
// with the console.
func (c *Console) Run(ctx context.Context, cancel context.CancelFunc) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete:    completer(),
	})
	if err != nil {
		return fmt.Errorf("creating readline: %w", err)
	}
	defer rl.Close()

	// Command output goes through readline so it does not clobber the prompt.
	c.out = rl.Stdout()
	go func() {
		<-ctx.Done()
		rl.Close()
	}()

	if _, err := c.Execute(ctx, "help"); err != nil {
		return err
	}

	for {
		if ctx.Err() != nil {
			return nil
		}

		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if err != nil {
			if !errors.Is(err, io.EOF) && ctx.Err() == nil {
				fmt.Fprintf(c.out, "read error: %v\n", err)
			}
			cancel()
			return nil
		}

		quit, err := c.Execute(ctx, line)
		if err != nil {
			fmt.Fprintf(c.out, "error: %v\n", err)
		}
		if quit {
			fmt.Fprintln(c.out, "exiting...")
			cancel()
			return nil
		}
	}
}

// Stdout returns the writer command output goes to.
func (c *Console) Stdout() io.Writer {
	return c.out
}

func completer() *readline.PrefixCompleter {
	profiles := func(string) []string { return profile.Names() }

	items := make([]readline.PrefixCompleterInterface, 0, len(commandOrder))
	for _, name := range commandOrder {
		if name == "switch" {
			items = append(items, readline.PcItem(name, readline.PcItemDynamic(profiles)))
			continue
		}
		items = append(items, readline.PcItem(name))
	}
	return readline.NewPrefixCompleter(items...)
}
