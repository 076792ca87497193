package middleware

import "strings"

// RouteClass categorizes an incoming path for the edge-layer guard.
type RouteClass int

const (
	// RouteUnclassified paths have no redirect rule.
	RouteUnclassified RouteClass = iota
	// RoutePublicAuth paths are the login/registration screens.
	RoutePublicAuth
	// RouteProtected paths require a session.
	RouteProtected
)

func (c RouteClass) String() string {
	switch c {
	case RoutePublicAuth:
		return "public_auth"
	case RouteProtected:
		return "protected"
	default:
		return "unclassified"
	}
}

// Classifier matches paths against two fixed prefix lists. Matching is
// case-sensitive exact-prefix, nothing fancier.
type Classifier struct {
	publicAuth []string
	protected  []string
}

// NewClassifier builds a Classifier from the configured prefix lists.
func NewClassifier(publicAuth, protected []string) *Classifier {
	return &Classifier{
		publicAuth: append([]string(nil), publicAuth...),
		protected:  append([]string(nil), protected...),
	}
}

// Classify returns the class of the given path.
func (c *Classifier) Classify(path string) RouteClass {
	for _, p := range c.publicAuth {
		if strings.HasPrefix(path, p) {
			return RoutePublicAuth
		}
	}
	for _, p := range c.protected {
		if strings.HasPrefix(path, p) {
			return RouteProtected
		}
	}
	return RouteUnclassified
}
