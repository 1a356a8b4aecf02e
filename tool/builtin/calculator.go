package builtin

import (
	"context"
	"errors"
	"fmt"

	"github.com/Inventure71/EvolveProject/tool"
)

func init() {
	register("calculator", func(Config) tool.Definition {
		return tool.Definition{
			Name: "calculator",
			Doc: `Performs a basic arithmetic operation between two numbers.

Args:
    operation: The operation to perform: add, subtract, multiply or divide.
    number1: The first number to operate on.
    number2: The second number to operate on.`,
			Params: []tool.Param{
				tool.Required("operation", "str"),
				tool.Required("number1", "float"),
				tool.Required("number2", "float"),
			},
			Func: calculate,
		}
	})
}

func calculate(ctx context.Context, args tool.Args) (any, error) {
	a, err := args.Float("number1")
	if err != nil {
		return nil, err
	}
	b, err := args.Float("number2")
	if err != nil {
		return nil, err
	}

	switch op := args.String("operation"); op {
	case "add":
		return a + b, nil
	case "subtract":
		return a - b, nil
	case "multiply":
		return a * b, nil
	case "divide":
		if b == 0 {
			return nil, errors.New("division by zero")
		}
		return a / b, nil
	default:
		return nil, fmt.Errorf("invalid operation %q", op)
	}
}
