/*
Package dsl provides a fluent builder for guide catalogs, as an alternative to YAML.

Example usage:

	b := dsl.New()

	b.Bootstrap("signup").
		Title("Create your account").
		Step("Open {{portal_url}} and choose Sign Up.").
		Step("Verify your email address.").
		Ask("Have you verified your email?")

	b.Service("pvc").
		Title("Replace a lost PVC").
		Name("Lost PVC").
		Keywords("lost", "pvc").
		Step("Fill the replacement form.")

	cat, err := b.Build(catalog.WithPortalURLs("https://cvr.inecnigeria.org", ""))
	// ... pass cat to cvrguide.New(cvrguide.WithCatalog(cat))

Every service implicitly requires the bootstrap workflow.
*/
package dsl
