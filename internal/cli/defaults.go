package cli

// configuredProduct returns the product and component set in the
// configuration. A component only makes sense within its product, so
// callers apply the two together and only when the command line names
// neither.
func (cli *CLI) configuredProduct() (product, component string, err error) {
	p, ok, err := cli.resolver.Product()
	if err != nil {
		return "", "", err
	}
	if ok {
		product = p.Value
	}
	c, ok, err := cli.resolver.Component()
	if err != nil {
		return "", "", err
	}
	if ok {
		component = c.Value
	}
	return product, component, nil
}
