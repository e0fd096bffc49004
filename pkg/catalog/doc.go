/*
Package catalog provides the Guide Catalog: the immutable, ordered set of workflows the
engine walks users through.

Catalogs are loaded once from YAML (the embedded default or a file) and validated before use.
The order in which workflows appear in the source is preserved; it drives the service menu
and the keyword tie-break during service selection.
*/
package catalog
