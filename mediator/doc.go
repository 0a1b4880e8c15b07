/*
Package mediator provides an in-process message dispatcher.

Handlers are registered per exact runtime message type and are built fresh by a factory for
every dispatch. Send delivers a request to one registered handler and returns its result;
Publish broadcasts a message to every registered handler concurrently and waits for all of
them before reporting the first failure.

Lookup is keyed on the concrete reflect.Type of the message. A message whose type embeds or
implements a registered type does not match it, and Ping and *Ping are distinct keys.
*/
package mediator
