// Package schema loads declarative form definitions and turns them into form
// engines.
//
// A definition is usually written in YAML:
//
//	name: signup
//	title: Create your account
//	fields:
//	  - name: email
//	    type: email
//	    rules: [required, email]
//	  - name: password
//	    type: password
//	    rules: [required, password]
//	  - name: confirm
//	    type: password
//	    rules:
//	      - required
//	      - rule: password_match
//	        args: [password]
//	        message: Both passwords must match
//
// Rules are resolved through a registry of named builders; RuleNames lists
// them and Register adds new ones. FromOpenAPI derives a definition from an
// OpenAPI 3 component schema instead.
package schema
