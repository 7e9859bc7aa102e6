package ports

// DomainSource loads the list of domains to enumerate.
type DomainSource interface {
	LoadDomains(path string) ([]string, error)
}
