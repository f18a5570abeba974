// Package hybrid provides hybrid logical clocks, which pair a physical time
// reading with a logical counter. The physical component keeps timestamps
// close to wall-clock time; the logical component orders events that share
// a physical reading. The physical component never moves backwards, even
// when the physical time source does.
package hybrid
