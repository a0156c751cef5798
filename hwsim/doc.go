/*
Package hwsim is a small clocked gate-level simulator used to run the LFSR
peripheral that the testbench verifies.

Parts are described by a PartSpec and composed into larger chips with Chip,
using connection strings such as "a=q[7], b=q[5], out=x0". A Circuit then
mounts the parts and runs them step by step: every component reads the pin
states of the previous step and writes new states, while a built-in clock
signal toggles every half cycle. Clocked parts (see hwlib.DFF) sample their
inputs on the raising edge of the clock.

The API mimics a hardware description language. As a result, it relies heavily
on closures, which can feel a bit awkward when implementing custom components.
*/
package hwsim
