// Package validator checks request structs against `validate` tags and
// reports failures as a snake_case field to message map.
package validator
