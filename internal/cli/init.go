package cli

type InitCmd struct{}

func (c *InitCmd) Run(ctx *Context) error {
	if err := ctx.acquireLock(); err != nil {
		return err
	}
	if err := ctx.provider().Init(); err != nil {
		return err
	}
	ctx.printf("Initialized habitlit storage at: %s\n", ctx.provider().GetConfigPath())
	return nil
}
