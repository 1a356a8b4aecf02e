// Package tool discovers, describes and invokes the functions the model may call.
//
// A tool is declared as a [Definition]: a name, a documentation string, an
// ordered list of typed parameters and a [Func] body. The schema advertised
// to the model is derived from the declaration by [SchemaFor]:
//
//   - the description is the first paragraph of Doc
//   - each parameter description comes from the "Args:" section of Doc
//   - parameters without a default are required
//
// Definitions are supplied by sources. A [Registry] rebuilds its whole table
// from every source on [Registry.Reload], so on-disk manifests edited since
// the last load take effect without restarting the process.
//
// # Declaring a Tool
//
//	catalog := tool.NewCatalog("builtin")
//	catalog.MustRegister(tool.Definition{
//	    Name: "greet",
//	    Doc: `Greet someone by name.
//
//	Args:
//	    name: who to greet
//	    excited: add an exclamation mark`,
//	    Params: []tool.Param{
//	        tool.Required("name", "string"),
//	        tool.Optional("excited", "bool", false),
//	    },
//	    Func: func(ctx context.Context, args tool.Args) (any, error) {
//	        s := "Hello, " + args.String("name")
//	        if args.Bool("excited") {
//	            s += "!"
//	        }
//	        return s, nil
//	    },
//	})
//
//	registry := tool.NewRegistry(catalog)
//	if err := registry.Reload(ctx); err != nil {
//	    return err
//	}
//
// # Collisions
//
// Tool names are unique. When two sources declare the same name the first
// one loaded wins and the later declaration is skipped with a warning.
package tool
