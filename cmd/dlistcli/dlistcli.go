package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/Qthai16/go-dlist/cmd/dlistgw/client"
	"github.com/Qthai16/go-dlist/utils"
	"github.com/pkg/errors"
)

var errUsage = errors.New("usage: dlistcli [-addr host:port] <op> <list> [args...]")

type CmdlineOpts struct {
	Addr    string
	Timeout time.Duration
}

type command struct {
	nargs int // int64 args after the list name
	run   func(ctx context.Context, cli *client.Client, name string, args []int64) (string, error)
}

func ok(err error) (string, error) {
	return "OK", err
}

var commands = map[string]command{
	"pushfront": {1, func(ctx context.Context, c *client.Client, n string, a []int64) (string, error) {
		return ok(c.PushFront(ctx, n, a[0]))
	}},
	"pushback": {-1, func(ctx context.Context, c *client.Client, n string, a []int64) (string, error) {
		for _, v := range a {
			if err := c.PushBack(ctx, n, v); err != nil {
				return "", err
			}
		}
		return "OK", nil
	}},
	"deletefirst": {0, func(ctx context.Context, c *client.Client, n string, a []int64) (string, error) {
		return ok(c.DeleteFirst(ctx, n))
	}},
	"deletelast": {0, func(ctx context.Context, c *client.Client, n string, a []int64) (string, error) {
		return ok(c.DeleteLast(ctx, n))
	}},
	"get": {1, func(ctx context.Context, c *client.Client, n string, a []int64) (string, error) {
		v, err := c.Get(ctx, n, int(a[0]))
		return strconv.FormatInt(v, 10), err
	}},
	"set": {2, func(ctx context.Context, c *client.Client, n string, a []int64) (string, error) {
		v, err := c.Set(ctx, n, int(a[0]), a[1])
		return strconv.FormatInt(v, 10), err
	}},
	"insert": {2, func(ctx context.Context, c *client.Client, n string, a []int64) (string, error) {
		return ok(c.Insert(ctx, n, int(a[0]), a[1]))
	}},
	"remove": {1, func(ctx context.Context, c *client.Client, n string, a []int64) (string, error) {
		return ok(c.Remove(ctx, n, int(a[0])))
	}},
	"removeall": {1, func(ctx context.Context, c *client.Client, n string, a []int64) (string, error) {
		cnt, err := c.RemoveAllInstances(ctx, n, a[0])
		return fmt.Sprintf("removed %d", cnt), err
	}},
	"forward": {0, func(ctx context.Context, c *client.Client, n string, a []int64) (string, error) {
		return c.ForwardString(ctx, n)
	}},
	"backward": {0, func(ctx context.Context, c *client.Client, n string, a []int64) (string, error) {
		return c.BackwardString(ctx, n)
	}},
	"len": {0, func(ctx context.Context, c *client.Client, n string, a []int64) (string, error) {
		cnt, err := c.Len(ctx, n)
		return strconv.Itoa(cnt), err
	}},
	"drop": {0, func(ctx context.Context, c *client.Client, n string, a []int64) (string, error) {
		return ok(c.Drop(ctx, n))
	}},
}

// parseArgs splits "op list args..." and checks the arg count. nargs -1
// means one or more.
func parseArgs(argv []string) (command, string, []int64, error) {
	if len(argv) < 2 {
		return command{}, "", nil, errUsage
	}
	cmd, found := commands[argv[0]]
	if !found {
		return command{}, "", nil, errors.Wrapf(errUsage, "unknown op %q", argv[0])
	}
	rest := argv[2:]
	if (cmd.nargs < 0 && len(rest) == 0) || (cmd.nargs >= 0 && len(rest) != cmd.nargs) {
		return command{}, "", nil, errors.Wrapf(errUsage, "%v: wrong number of args", argv[0])
	}
	args := make([]int64, len(rest))
	for i, s := range rest {
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return command{}, "", nil, errors.Wrapf(err, "arg %d", i)
		}
		args[i] = v
	}
	return cmd, argv[1], args, nil
}

func main() {
	opts := CmdlineOpts{}
	flag.StringVar(&opts.Addr, "addr", "127.0.0.1:18100", "gateway addr")
	flag.DurationVar(&opts.Timeout, "timeout", 5*time.Second, "request timeout")
	flag.Parse()
	utils.SetLogLevel(utils.LevelErro)

	cmd, name, args, err := parseArgs(flag.Args())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	cli, err := client.NewClient(client.Config{Addr: opts.Addr})
	if err != nil {
		utils.LogFatal("failed to create client: %v", err)
	}
	defer cli.Close()
	ctx, cancel := context.WithTimeout(context.Background(), opts.Timeout)
	defer cancel()
	out, err := cmd.run(ctx, cli, name, args)
	if err != nil {
		utils.LogErro("%v %v: %v", flag.Arg(0), name, err)
		return
	}
	fmt.Println(out)
}
